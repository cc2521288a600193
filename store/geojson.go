package store

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-cityroutes/batched/citypairs"
	"github.com/ttpr0/go-cityroutes/geo"
	. "github.com/ttpr0/go-cityroutes/util"
)

//*******************************************
// geojson export
//*******************************************

// Builds one LineString feature per route from its encoded polyline.
func RoutesToGeoJSON(routes List[citypairs.CityPairRoute]) (*geojson.FeatureCollection, error) {
	collection := geojson.NewFeatureCollection()
	for _, route := range routes {
		coords, err := geo.DecodePolyline(route.Polyline)
		if err != nil {
			return nil, fmt.Errorf("invalid polyline of route %s -> %s: %w", route.Origin, route.Destination, err)
		}
		feature := geojson.NewFeature(coords.ToLineString())
		feature.Properties["origin"] = route.Origin
		feature.Properties["destination"] = route.Destination
		feature.Properties["mode"] = route.Mode
		feature.Properties["duration_mins"] = route.Duration
		feature.Properties["distance_km"] = route.Distance
		feature.Properties["transfers"] = route.Transfers
		collection.Append(feature)
	}
	return collection, nil
}

func WriteGeoJSON(routes List[citypairs.CityPairRoute], file string) error {
	collection, err := RoutesToGeoJSON(routes)
	if err != nil {
		return err
	}
	data, err := collection.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	return os.WriteFile(file, data, 0o644)
}
