package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ttpr0/go-cityroutes/comps"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/graph"
	"github.com/ttpr0/go-cityroutes/parser"
	"github.com/ttpr0/go-cityroutes/preproc"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

// Builds the transit graph of the configured mode or loads it from graph-dir.
//
// The projection is taken from the config, the stored graph or derived from the city extent, in that order.
// A stored graph is rebuilt if build-graph is set, graph-dir is empty or its projection or grid differ from the config.
func NewRouteManager(config Config, cities List[structs.City], metrics *BatchMetrics) (*RouteManager, error) {
	path := config.GraphDir
	graph_path := path + "/"
	build := config.BuildGraph || IsDirectoryEmpty(path)

	var meta RouteManagerMeta
	if !build {
		stored, err := ReadJSONFromFile[RouteManagerMeta](graph_path + "meta")
		switch {
		case err != nil:
			slog.Warn("failed to read graph meta, rebuilding graph", "error", err)
			build = true
		case stored.Mode != config.Mode:
			slog.Warn("stored graph has a different mode, rebuilding graph", "stored", stored.Mode.String())
			build = true
		case !config.Projection.IsZero() && stored.Projection != config.Projection:
			slog.Warn("stored graph uses a different projection, rebuilding graph")
			build = true
		case stored.GridResolution != config.Unify.GridResolution:
			slog.Warn("stored graph uses a different grid resolution, rebuilding graph")
			build = true
		default:
			meta = stored
		}
	}

	params := config.Projection
	if build {
		if params.IsZero() {
			coords := make(geo.CoordArray, 0, cities.Length())
			for _, city := range cities {
				coords = append(coords, city.Loc)
			}
			derived, err := geo.DeriveProjectionParams(coords)
			if err != nil {
				return nil, err
			}
			params = derived
			slog.Info(fmt.Sprintf("derived projection lat-1=%.4f lat-2=%.4f lat-0=%.4f lon-0=%.4f", params.Lat1, params.Lat2, params.Lat0, params.Lon0))
		}
	} else {
		params = meta.Projection
	}
	projection, err := geo.NewLambertConformalConic(params)
	if err != nil {
		return nil, err
	}

	var g *graph.TransitGraph
	if build {
		start := time.Now()
		g, meta, err = _BuildGraph(config, projection)
		if err != nil {
			return nil, err
		}
		metrics.ObserveStage("build", time.Since(start))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create graph dir: %w", err)
		}
		if err := graph.StoreTransitGraph(g, graph_path+config.Mode.String()); err != nil {
			return nil, err
		}
		if err := WriteJSONToFile(meta, graph_path+"meta"); err != nil {
			return nil, fmt.Errorf("failed to write graph meta: %w", err)
		}
	} else {
		start := time.Now()
		g, err = graph.LoadTransitGraph(graph_path + config.Mode.String())
		if err != nil {
			return nil, err
		}
		metrics.ObserveStage("load", time.Since(start))
		slog.Info(fmt.Sprintf("loaded transit graph with %v nodes, %v legs", g.NodeCount(), g.EdgeCount()))
	}

	nodes := NewArray[structs.UnifiedStop](g.NodeCount())
	for i := range nodes {
		nodes[i] = g.GetNode(int32(i))
	}

	return &RouteManager{
		config:     config,
		meta:       meta,
		graph:      g,
		index:      comps.NewStopIndex(nodes),
		projection: projection,
	}, nil
}

func _BuildGraph(config Config, projection *geo.LambertConformalConic) (*graph.TransitGraph, RouteManagerMeta, error) {
	stops, stop_stats, err := parser.ParseStops(config.Source.Stops)
	if err != nil {
		return nil, RouteManagerMeta{}, err
	}
	nodes, mapping, unify_stats, err := preproc.UnifyStops(stops, projection, config.Unify.GridResolution)
	if err != nil {
		return nil, RouteManagerMeta{}, err
	}
	stop_times, time_stats, err := parser.ParseStopTimes(config.Source.StopTimes)
	if err != nil {
		return nil, RouteManagerMeta{}, err
	}
	g, build_stats := graph.BuildTransitGraph(nodes, stop_times, mapping, stops)

	meta := RouteManagerMeta{
		Mode:           config.Mode,
		Projection:     projection.Params(),
		GridResolution: config.Unify.GridResolution,
		Stops:          stop_stats,
		StopTimes:      time_stats,
		Unify:          unify_stats,
		Build:          build_stats,
	}
	return g, meta, nil
}

type RouteManagerMeta struct {
	Mode           ModeType             `json:"mode"`
	Projection     geo.ProjectionParams `json:"projection"`
	GridResolution float64              `json:"grid_resolution"`
	Stops          parser.ReadStats     `json:"stops"`
	StopTimes      parser.ReadStats     `json:"stop_times"`
	Unify          preproc.UnifyStats   `json:"unify"`
	Build          graph.BuildStats     `json:"build"`
}

type RouteManager struct {
	config     Config
	meta       RouteManagerMeta
	graph      *graph.TransitGraph
	index      *comps.StopIndex
	projection *geo.LambertConformalConic
}

func (self *RouteManager) GetGraph() *graph.TransitGraph {
	return self.graph
}
func (self *RouteManager) GetIndex() *comps.StopIndex {
	return self.index
}
func (self *RouteManager) GetProjection() *geo.LambertConformalConic {
	return self.projection
}
func (self *RouteManager) GetMeta() RouteManagerMeta {
	return self.meta
}
