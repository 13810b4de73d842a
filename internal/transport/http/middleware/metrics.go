package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Path label for requests that match no route.
const unmatchedRoute = "unmatched"

// Metrics records latency and status per route template (/gyms/:gymId/check-ins,
// not the concrete gym id) and tracks requests in flight.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		labels := []string{c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status())}
		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
