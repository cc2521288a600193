package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// city parser
//*******************************************

// Reads cities from a csv file, the first occurrence of a city name wins.
func ParseCities(file string) (List[structs.City], ReadStats, error) {
	stats := ReadStats{}
	cities := NewList[structs.City](100)
	seen := NewDict[string, bool](100)
	for row, err := range ReadCSVFromFile[CityRecord](file, ',') {
		if errors.Is(err, ErrCSVFile) {
			return cities, stats, fmt.Errorf("failed to read cities file %s: %w", file, err)
		}
		stats.Rows += 1
		if err != nil {
			stats.Dropped += 1
			continue
		}
		lat, lat_ok := _ParseCoordinate(row.Lat)
		lon, lon_ok := _ParseCoordinate(row.Lon)
		coord := geo.NewCoord(lon, lat)
		if row.City == "" || !lat_ok || !lon_ok || !coord.IsValid() {
			slog.Debug("dropping city row", "city", row.City)
			stats.Dropped += 1
			continue
		}
		if seen.ContainsKey(row.City) {
			continue
		}
		seen[row.City] = true
		cities.Add(structs.City{Name: row.City, Loc: coord})
	}
	slog.Info(fmt.Sprintf("read %v cities from %s", cities.Length(), file))
	return cities, stats, nil
}

// Reads named place nodes of the given place types (e.g. "city", "town") from an osm pbf extract.
func ParseOSMCities(ctx context.Context, pbf_file string, place_types []string) (List[structs.City], error) {
	cities := NewList[structs.City](100)

	file, err := os.Open(pbf_file)
	if err != nil {
		return cities, fmt.Errorf("failed to open osm file: %w", err)
	}
	defer file.Close()

	types := NewDict[string, bool](len(place_types))
	for _, typ := range place_types {
		types[typ] = true
	}
	seen := NewDict[string, bool](100)

	scanner := osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if !types.ContainsKey(node.Tags.Find("place")) {
			continue
		}
		name := node.Tags.Find("name")
		if name == "" || seen.ContainsKey(name) {
			continue
		}
		seen[name] = true
		cities.Add(structs.City{Name: name, Loc: geo.NewCoord(node.Lon, node.Lat)})
	}
	if err := scanner.Err(); err != nil {
		return cities, fmt.Errorf("failed to scan osm file: %w", err)
	}
	slog.Info(fmt.Sprintf("read %v cities from %s", cities.Length(), pbf_file))
	return cities, nil
}
