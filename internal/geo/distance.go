// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
)

const (
	EarthRadiusKm = 6371.0

	// NearbyRadiusKm bounds proximity search results.
	NearbyRadiusKm = 10.0
	// MaxCheckInDistanceKm is the check-in geofence (100 meters).
	MaxCheckInDistanceKm = 0.1

	// Tolerance absorbs float noise when comparing a distance against a
	// radius, so a point exactly on the boundary counts as inside.
	Tolerance = 1e-9
)

// Distance returns the haversine distance between from and to in kilometers.
func Distance(from, to domain.Coordinate) float64 {
	if from == to {
		return 0
	}

	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can leave a slightly outside [0, 1] near antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Within reports whether the distance between from and to is at most radiusKm.
func Within(from, to domain.Coordinate, radiusKm float64) bool {
	return Distance(from, to) <= radiusKm+Tolerance
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
