package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
)

func _BuildTestGraph(t *testing.T) (*TransitGraph, BuildStats) {
	t.Helper()
	nodes := Array[structs.UnifiedStop]{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	}
	mapping := Dict[string, int32]{"SA": 0, "SB": 1, "SB2": 1, "SC": 2}
	stops := List[structs.Stop]{
		{ID: "SA", Agency: "rail", Loc: Some(geo.NewCoord(2.35, 48.88))},
		{ID: "SB", Agency: "rail", Loc: Some(geo.NewCoord(3.07, 50.64))},
		{ID: "SB2", Agency: "bus", Loc: Some(geo.NewCoord(3.09, 50.62))},
		{ID: "SC", Agency: "rail", Loc: Some(geo.NewCoord(4.34, 50.84))},
	}
	stop_times := List[structs.StopTime]{
		// T1 given out of order
		{TripID: "T1", StopID: "SC", Sequence: 3, Arrival: 125, Departure: 130},
		{TripID: "T1", StopID: "SA", Sequence: 1, Arrival: 80, Departure: 80},
		{TripID: "T1", StopID: "SB", Sequence: 2, Arrival: 95, Departure: 100},
		// X is unmapped and must not be bridged
		{TripID: "T2", StopID: "SB2", Sequence: 1, Arrival: 100, Departure: 100},
		{TripID: "T2", StopID: "X", Sequence: 2, Arrival: 105, Departure: 106},
		{TripID: "T2", StopID: "SC", Sequence: 3, Arrival: 110, Departure: 112},
		// overnight
		{TripID: "T3", StopID: "SA", Sequence: 1, Arrival: 1430, Departure: 1432},
		{TripID: "T3", StopID: "SC", Sequence: 2, Arrival: 1445, Departure: 1450},
		// single row trip
		{TripID: "T4", StopID: "SA", Sequence: 1, Arrival: 10, Departure: 10},
	}
	g, stats := BuildTransitGraph(nodes, stop_times, mapping, stops)
	return g, stats
}

func TestBuildTransitGraph(t *testing.T) {
	g, stats := _BuildTestGraph(t)

	assert.Equal(t, 4, stats.Trips)
	assert.Equal(t, 3, stats.Legs)
	assert.Equal(t, 2, stats.Unmapped)
	assert.Equal(t, 0, stats.Gaps)
	require.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 4, g.TripCount())

	ab := g.GetEdge(0)
	assert.Equal(t, int32(0), ab.From)
	assert.Equal(t, int32(1), ab.To)
	assert.Equal(t, "T1", ab.TripID)
	assert.Equal(t, "T1", g.GetTripID(ab.Trip))
	assert.Equal(t, "rail", ab.Agency)
	assert.Equal(t, 80.0, ab.ArriveAtSource)
	assert.Equal(t, 100.0, ab.DepartFromTarget)
	assert.Equal(t, 20.0, ab.Duration)

	bc := g.GetEdge(1)
	assert.Equal(t, int32(1), bc.From)
	assert.Equal(t, int32(2), bc.To)
	assert.Equal(t, 35.0, bc.Duration)
	assert.Equal(t, "SB", bc.StopFrom)
	assert.Equal(t, "SC", bc.StopTo)
	assert.Equal(t, geo.NewCoord(3.07, 50.64), bc.SourceLoc)
	assert.Equal(t, geo.NewCoord(4.34, 50.84), bc.TargetLoc)

	night := g.GetEdge(2)
	assert.Equal(t, "T3", night.TripID)
	assert.Equal(t, 20.0, night.Duration)
	assert.Equal(t, 1450.0, night.DepartFromTarget)
	assert.Equal(t, 10.0, night.DepartureClock())

	// no leg connects stops of different trips
	for i := 0; i < g.EdgeCount(); i++ {
		leg := g.GetEdge(int32(i))
		assert.Equal(t, leg.TripID, g.GetTripID(leg.Trip))
	}
}

func TestBuildTransitGraphSequenceGap(t *testing.T) {
	nodes := Array[structs.UnifiedStop]{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	mapping := Dict[string, int32]{"SA": 0, "SB": 1, "SC": 2}
	stops := List[structs.Stop]{
		{ID: "SA", Loc: Some(geo.NewCoord(0, 0))},
		{ID: "SB", Loc: Some(geo.NewCoord(1, 0))},
		{ID: "SC", Loc: Some(geo.NewCoord(2, 0))},
	}
	stop_times := List[structs.StopTime]{
		// sequence 2 is missing, e.g. dropped for a malformed time
		{TripID: "T1", StopID: "SA", Sequence: 1, Arrival: 80, Departure: 80},
		{TripID: "T1", StopID: "SC", Sequence: 3, Arrival: 125, Departure: 130},
		{TripID: "T1", StopID: "SB", Sequence: 4, Arrival: 140, Departure: 141},
	}
	g, stats := BuildTransitGraph(nodes, stop_times, mapping, stops)

	assert.Equal(t, 1, stats.Gaps)
	assert.Equal(t, 0, stats.Unmapped)
	require.Equal(t, 1, g.EdgeCount())
	leg := g.GetEdge(0)
	assert.Equal(t, int32(2), leg.From)
	assert.Equal(t, int32(1), leg.To)
	assert.Equal(t, int32(3), leg.Sequence)
}

func TestBuildTransitGraphUsesRawStopCoordinates(t *testing.T) {
	// A1 and A2 share a node located at A1
	nodes := Array[structs.UnifiedStop]{
		{ID: "a", Loc: geo.NewCoord(0, 0)},
		{ID: "b", Loc: geo.NewCoord(1, 0)},
	}
	mapping := Dict[string, int32]{"A1": 0, "A2": 0, "B": 1}
	stops := List[structs.Stop]{
		{ID: "A1", Loc: Some(geo.NewCoord(0, 0))},
		{ID: "A2", Loc: Some(geo.NewCoord(0.04, 0))},
		{ID: "B", Loc: Some(geo.NewCoord(1, 0))},
	}
	stop_times := List[structs.StopTime]{
		{TripID: "T1", StopID: "A2", Sequence: 1, Arrival: 80, Departure: 80},
		{TripID: "T1", StopID: "B", Sequence: 2, Arrival: 125, Departure: 130},
	}
	g, _ := BuildTransitGraph(nodes, stop_times, mapping, stops)

	require.Equal(t, 1, g.EdgeCount())
	leg := g.GetEdge(0)
	assert.Equal(t, int32(0), leg.From)
	assert.Equal(t, geo.NewCoord(0.04, 0), leg.SourceLoc)
	assert.Equal(t, geo.NewCoord(1, 0), leg.TargetLoc)
}

func TestTransitGraphExplorer(t *testing.T) {
	g, _ := _BuildTestGraph(t)
	explorer := g.GetGraphExplorer()

	out := NewList[int32](2)
	explorer.ForAdjacentEdges(0, FORWARD, func(ref EdgeRef) {
		out.Add(ref.EdgeID)
		assert.Equal(t, int32(0), explorer.GetOtherNode(ref, explorer.GetEdge(ref).To))
	})
	assert.Equal(t, List[int32]{0, 2}, out)

	in := NewList[int32](2)
	explorer.ForAdjacentEdges(2, BACKWARD, func(ref EdgeRef) {
		in.Add(ref.OtherID)
	})
	assert.Equal(t, List[int32]{1, 0}, in)
}

func TestStoreLoadTransitGraph(t *testing.T) {
	g, _ := _BuildTestGraph(t)
	path := t.TempDir() + "/graph"
	require.NoError(t, StoreTransitGraph(g, path))

	loaded, err := LoadTransitGraph(path)
	require.NoError(t, err)
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())
	assert.Equal(t, g.GetEdge(1), loaded.GetEdge(1))

	RemoveTransitGraph(path)
	_, err = LoadTransitGraph(path)
	assert.Error(t, err)
}
