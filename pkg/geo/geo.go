package geo

import (
	"math"

	apperrors "github.com/pharmafind/backend/pkg/errors"
)

const earthRadiusKm = 6371.0

// Point represents a pair of geographic coordinates.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinates are within range.
func (p Point) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// DistanceKm returns the great-circle distance between two points in
// kilometers, using the haversine formula on a spherical Earth.
func DistanceKm(a, b Point) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Latitude))*math.Cos(degreesToRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
