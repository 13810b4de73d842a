package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/token"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/handler"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Users    *handler.UserHandler
	Gyms     *handler.GymHandler
	CheckIns *handler.CheckInHandler
}

func NewRouter(logger *slog.Logger, h Handlers, tokens *token.Issuer, sessionLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens)

	// Public routes
	r.POST("/users", h.Users.Register)
	r.POST("/sessions", sessionLimiter.Handler(), h.Users.Authenticate)

	r.GET("/me", authMW, h.Users.Profile)

	gyms := r.Group("/gyms", authMW)
	gyms.POST("", middleware.RequireRole(domain.RoleAdmin), h.Gyms.Create)
	gyms.GET("/search", h.Gyms.Search)
	gyms.GET("/nearby", h.Gyms.Nearby)
	gyms.POST("/:gymId/check-ins", h.CheckIns.Create)

	checkIns := r.Group("/check-ins", authMW)
	checkIns.GET("/history", h.CheckIns.History)
	checkIns.GET("/metrics", h.CheckIns.Metrics)

	return r
}
