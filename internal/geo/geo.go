// Package geo computes great-circle distances between coordinates.
package geo

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies within latitude [-90, 90] and
// longitude [-180, 180].
func (p Point) Valid() bool {
	return p.Latitude >= minLatitude && p.Latitude <= maxLatitude &&
		p.Longitude >= minLongitude && p.Longitude <= maxLongitude
}

func (p Point) String() string {
	return fmt.Sprintf("{lat=%g, long=%g}", p.Latitude, p.Longitude)
}

// Distance returns the haversine distance between a and b in whole meters.
// It does not validate its inputs.
func Distance(a, b Point) int {
	dLat := radians(b.Latitude - a.Latitude)
	dLng := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return int(earthRadiusMeters * c)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
