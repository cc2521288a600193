package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ttpr0/go-cityroutes/batched/citypairs"
	"github.com/ttpr0/go-cityroutes/parser"
	"github.com/ttpr0/go-cityroutes/store"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// batch pipeline
//*******************************************

// Computes the routes of all city pairs and writes them to the configured outputs.
func Run(ctx context.Context, config Config) error {
	metrics := NewBatchMetrics(config.Mode.String())

	cities, err := ReadCities(ctx, config.Source)
	if err != nil {
		return err
	}
	if cities.Length() < 2 {
		return fmt.Errorf("need at least two cities, got %v", cities.Length())
	}

	manager, err := NewRouteManager(config, cities, metrics)
	if err != nil {
		return err
	}

	pairs := citypairs.GenerateCityPairs(cities, manager.GetProjection())
	selector, err := citypairs.NewRouteSelector(manager.GetGraph(), manager.GetIndex(), config.Search, config.Select.Radius)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	start := time.Now()
	routes, stats, err := citypairs.RunBatch(ctx, selector, pairs, citypairs.BatchOptions{
		Workers:    config.Select.Workers,
		MaxQueries: config.Select.MaxQueries,
		Mode:       config.Mode.String(),
		Observer:   metrics,
	})
	metrics.ObserveStage("select", time.Since(start))
	if err != nil {
		return err
	}
	if stats.NotQueried > 0 {
		slog.Warn(fmt.Sprintf("%v city pairs not queried, raise select.max-queries to cover all pairs", stats.NotQueried))
	}

	if err := WriteRoutes(ctx, config.Output.SQLite, config.Mode.String(), routes); err != nil {
		return err
	}
	if config.Output.GeoJSON != "" {
		if err := store.WriteGeoJSON(routes, config.Output.GeoJSON); err != nil {
			return err
		}
		slog.Info("wrote geojson to " + config.Output.GeoJSON)
	}
	if config.Output.Metrics != "" {
		if err := metrics.WriteToTextfile(config.Output.Metrics); err != nil {
			return err
		}
	}
	return nil
}

// Reads the cities from the csv and the osm file, csv entries come first.
func ReadCities(ctx context.Context, source SourceOptions) (List[structs.City], error) {
	cities := NewList[structs.City](100)
	if source.Cities != "" {
		csv_cities, _, err := parser.ParseCities(source.Cities)
		if err != nil {
			return cities, err
		}
		cities = append(cities, csv_cities...)
	}
	if source.OSM != "" {
		place_types := source.PlaceTypes
		if len(place_types) == 0 {
			place_types = []string{"city"}
		}
		osm_cities, err := parser.ParseOSMCities(ctx, source.OSM, place_types)
		if err != nil {
			return cities, err
		}
		cities = append(cities, osm_cities...)
	}
	return cities, nil
}

func WriteRoutes(ctx context.Context, file string, mode string, routes List[citypairs.CityPairRoute]) error {
	route_store, err := store.Open(file)
	if err != nil {
		return err
	}
	defer route_store.Close()
	if err := route_store.EnsureSchema(ctx); err != nil {
		return err
	}
	return route_store.ReplaceRoutes(ctx, mode, routes)
}
