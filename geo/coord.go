package geo

import (
	"math"

	"github.com/paulmach/orb"
)

//*******************************************
// coordinates
//*******************************************

// Geographic coordinate as (lon, lat) in degrees.
type Coord [2]float32

func NewCoord(lon, lat float64) Coord {
	return Coord{float32(lon), float32(lat)}
}

func (self Coord) Lon() float64 {
	return float64(self[0])
}
func (self Coord) Lat() float64 {
	return float64(self[1])
}
func (self Coord) IsValid() bool {
	lon := self.Lon()
	lat := self.Lat()
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}
func (self Coord) ToPoint() orb.Point {
	return orb.Point{self.Lon(), self.Lat()}
}

type CoordArray []Coord

func (self CoordArray) ToLineString() orb.LineString {
	line := make(orb.LineString, len(self))
	for i, c := range self {
		line[i] = c.ToPoint()
	}
	return line
}

// Planar coordinate (x, y) in kilometers.
type Point [2]float64

func (self Point) X() float64 {
	return self[0]
}
func (self Point) Y() float64 {
	return self[1]
}

// Euclidean distance in the projected plane.
func (self Point) DistanceTo(other Point) float64 {
	dx := self[0] - other[0]
	dy := self[1] - other[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// Snaps both axes to the nearest multiple of resolution.
func (self Point) Round(resolution float64) Point {
	return Point{
		math.Round(self[0]/resolution) * resolution,
		math.Round(self[1]/resolution) * resolution,
	}
}
