package domain

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// CoordinatePrecision is the number of decimal places kept for latitude and
// longitude. It matches the NUMERIC(10,7) columns in postgres, so a value
// read back from storage compares equal to the value written.
const CoordinatePrecision = 7

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// NewCoordinate validates and rounds a latitude/longitude pair.
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) || latitude < -90 || latitude > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, latitude)
	}
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) || longitude < -180 || longitude > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, longitude)
	}
	return Coordinate{
		Latitude:  roundCoordinate(latitude),
		Longitude: roundCoordinate(longitude),
	}, nil
}

func roundCoordinate(v float64) float64 {
	scale := math.Pow10(CoordinatePrecision)
	return math.Round(v*scale) / scale
}

type Gym struct {
	ID          string
	Title       string
	Description *string // nil means not provided
	Phone       *string
	Latitude    float64
	Longitude   float64
}

func (g *Gym) Coordinate() Coordinate {
	return Coordinate{Latitude: g.Latitude, Longitude: g.Longitude}
}
