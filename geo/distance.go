package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

const EARTH_RADIUS_KM = 6371.0

// Great-circle distance in kilometers.
func HaversineKM(a, b Coord) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat(), a.Lon())
	p2 := s2.LatLngFromDegrees(b.Lat(), b.Lon())
	return p1.Distance(p2).Radians() * EARTH_RADIUS_KM
}

func RoundTo(value float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(value*scale) / scale
}
