package citypairs

import (
	"fmt"

	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// city pairs
//*******************************************

type CityPair struct {
	Origin      string
	Destination string
	OriginLoc   geo.Coord
	DestLoc     geo.Coord
	// projected with the same projection as the unified stops
	OriginPoint geo.Point
	DestPoint   geo.Point
}

// Forms all ordered pairs of distinct cities.
//
// Cities are deduplicated by name (first wins) so every (origin, destination) appears once.
func GenerateCityPairs(cities List[structs.City], proj geo.IProjection) List[CityPair] {
	unique := NewList[structs.City](cities.Length())
	points := NewList[geo.Point](cities.Length())
	seen := NewDict[string, bool](cities.Length())
	for _, city := range cities {
		if seen.ContainsKey(city.Name) {
			continue
		}
		seen[city.Name] = true
		unique.Add(city)
		points.Add(proj.Project(city.Loc))
	}

	pairs := NewList[CityPair](unique.Length() * unique.Length())
	for i, origin := range unique {
		for j, dest := range unique {
			if i == j {
				continue
			}
			pairs.Add(CityPair{
				Origin:      origin.Name,
				Destination: dest.Name,
				OriginLoc:   origin.Loc,
				DestLoc:     dest.Loc,
				OriginPoint: points[i],
				DestPoint:   points[j],
			})
		}
	}
	slog.Info(fmt.Sprintf("generated %v city pairs from %v cities", pairs.Length(), unique.Length()))
	return pairs
}
