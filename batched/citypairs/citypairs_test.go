package citypairs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-cityroutes/comps"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/graph"
	"github.com/ttpr0/go-cityroutes/routing"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
)

// one degree equals 100 km
type _PlanarProjection struct{}

func (self _PlanarProjection) Project(coord geo.Coord) geo.Point {
	return geo.Point{coord.Lon() * 100, coord.Lat() * 100}
}
func (self _PlanarProjection) Inverse(point geo.Point) geo.Coord {
	return geo.NewCoord(point[0]/100, point[1]/100)
}

var _locs = geo.CoordArray{
	geo.NewCoord(2.35, 48.88),
	geo.NewCoord(2.36, 48.87),
	geo.NewCoord(3.07, 50.64),
	geo.NewCoord(4.36, 50.84),
	geo.NewCoord(6.0, 50.0),
}

func _Leg(from, to, trip int32, depart, duration float64) structs.TripLeg {
	return structs.TripLeg{
		SourceLoc:        _locs[from],
		TargetLoc:        _locs[to],
		From:             from,
		To:               to,
		Trip:             trip,
		TripID:           []string{"T1", "T2"}[trip],
		ArriveAtSource:   depart - duration,
		DepartFromTarget: depart,
		Duration:         duration,
	}
}

func _Cities() List[structs.City] {
	return List[structs.City]{
		{Name: "Paris", Loc: geo.NewCoord(0, 0)},
		{Name: "Lille", Loc: geo.NewCoord(1, 0)},
		{Name: "Brussels", Loc: geo.NewCoord(2, 0)},
		{Name: "Isolated", Loc: geo.NewCoord(3, 0)},
	}
}

func _Selector(t *testing.T) (*RouteSelector, *graph.TransitGraph) {
	t.Helper()
	nodes := Array[structs.UnifiedStop]{
		{ID: "paris-nord", Loc: _locs[0], Point: geo.Point{1, 0}},
		{ID: "paris-est", Loc: _locs[1], Point: geo.Point{-2, 1}},
		{ID: "lille", Loc: _locs[2], Point: geo.Point{100, 2}},
		{ID: "brussels", Loc: _locs[3], Point: geo.Point{200, 0}},
		{ID: "isolated", Loc: _locs[4], Point: geo.Point{301, 0}},
	}
	legs := Array[structs.TripLeg]{
		_Leg(0, 2, 0, 200, 80),
		_Leg(1, 2, 1, 150, 60),
		_Leg(2, 3, 0, 260, 40),
	}
	g := graph.NewTransitGraph(comps.NewTransit(nodes, legs, Array[string]{"T1", "T2"}))
	params := routing.SearchParams{StartTime: 90, TransferPenalty: 10, TimePenaltyFactor: 0.1}
	selector, err := NewRouteSelector(g, comps.NewStopIndex(nodes), params, 5)
	require.NoError(t, err)
	return selector, g
}

func TestGenerateCityPairs(t *testing.T) {
	cities := _Cities()
	cities.Add(structs.City{Name: "Paris", Loc: geo.NewCoord(9, 9)})
	pairs := GenerateCityPairs(cities, _PlanarProjection{})

	require.Equal(t, 12, pairs.Length())
	seen := NewDict[[2]string, bool](12)
	for _, pair := range pairs {
		assert.NotEqual(t, pair.Origin, pair.Destination)
		seen[[2]string{pair.Origin, pair.Destination}] = true
	}
	assert.Equal(t, 12, seen.Length())
	assert.Equal(t, "Paris", pairs[0].Origin)
	assert.Equal(t, "Lille", pairs[0].Destination)
	assert.Equal(t, geo.Point{100, 0}, pairs[0].DestPoint)
}

func TestSelectRoutePicksMinimumDuration(t *testing.T) {
	selector, g := _Selector(t)
	pairs := GenerateCityPairs(_Cities(), _PlanarProjection{})
	solver := selector.CreateSolver()

	// Paris -> Lille: paris-nord takes 80 minutes, paris-est 60
	route, outcome := solver.SelectRoute(pairs[0])
	require.Equal(t, OUTCOME_RESOLVED, outcome)
	require.True(t, route.HasValue())
	assert.Equal(t, int32(1), route.Value.OriginNode)
	assert.Equal(t, int32(2), route.Value.DestNode)
	assert.Equal(t, "paris-est", route.Value.OriginStop)
	assert.Equal(t, 60.0, route.Value.Duration)
	assert.Equal(t, 2, solver.SearchCount())

	// Paris -> Brussels: 80 + 40 vs 60 + 40 with a transfer
	route, outcome = solver.SelectRoute(pairs[1])
	require.Equal(t, OUTCOME_RESOLVED, outcome)
	assert.Equal(t, 100.0, route.Value.Duration)
	assert.Equal(t, 1, route.Value.Transfers)
	assert.Equal(t, 170.0, route.Value.Elapsed)
	require.Equal(t, 2, route.Value.Legs.Length())
	assert.Equal(t, "T2", route.Value.Legs[0].TripID)

	coords, err := geo.DecodePolyline(route.Value.Polyline)
	require.NoError(t, err)
	require.Equal(t, 3, len(coords))
	assert.InDelta(t, g.GetNode(1).Loc.Lat(), coords[0].Lat(), 1e-5)
	assert.InDelta(t, g.GetNode(3).Loc.Lon(), coords[2].Lon(), 1e-5)

	want := geo.RoundTo(geo.HaversineKM(g.GetNode(1).Loc, g.GetNode(2).Loc), 2) +
		geo.RoundTo(geo.HaversineKM(g.GetNode(2).Loc, g.GetNode(3).Loc), 2)
	assert.InDelta(t, want, route.Value.Distance, 1e-6)
}

func TestSelectRouteOmitsUnreachable(t *testing.T) {
	selector, _ := _Selector(t)
	pair := CityPair{Origin: "Lille", Destination: "Paris", OriginPoint: geo.Point{100, 0}, DestPoint: geo.Point{0, 0}}
	route, outcome := selector.CreateSolver().SelectRoute(pair)
	assert.Equal(t, OUTCOME_OMITTED, outcome)
	assert.False(t, route.HasValue())

	// no stops within radius
	pair = CityPair{Origin: "Sea", Destination: "Paris", OriginPoint: geo.Point{50, 50}, DestPoint: geo.Point{0, 0}}
	route, outcome = selector.CreateSolver().SelectRoute(pair)
	assert.Equal(t, OUTCOME_OMITTED, outcome)
	assert.False(t, route.HasValue())
}

func TestNewRouteSelectorInvalid(t *testing.T) {
	_, g := _Selector(t)
	index := comps.NewStopIndex(nil)
	for _, radius := range []float64{0, -5} {
		_, err := NewRouteSelector(g, index, routing.DefaultSearchParams(), radius)
		assert.ErrorIs(t, err, ErrInvalidRadius)
	}
	_, err := NewRouteSelector(g, index, routing.SearchParams{StartTime: 2000}, 5)
	assert.ErrorIs(t, err, routing.ErrInvalidSearchParams)
}

type _Observer struct {
	lock     sync.Mutex
	outcomes map[Outcome]int
}

func (self *_Observer) ObservePair(outcome Outcome, searches int, elapsed time.Duration) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.outcomes[outcome] += 1
}

func TestRunBatch(t *testing.T) {
	selector, _ := _Selector(t)
	pairs := GenerateCityPairs(_Cities(), _PlanarProjection{})
	observer := &_Observer{outcomes: map[Outcome]int{}}

	routes, stats, err := RunBatch(context.Background(), selector, pairs, BatchOptions{Workers: 4, Mode: "train", Observer: observer})
	require.NoError(t, err)

	require.Equal(t, 3, routes.Length())
	assert.Equal(t, [2]string{"Paris", "Lille"}, [2]string{routes[0].Origin, routes[0].Destination})
	assert.Equal(t, [2]string{"Paris", "Brussels"}, [2]string{routes[1].Origin, routes[1].Destination})
	assert.Equal(t, [2]string{"Lille", "Brussels"}, [2]string{routes[2].Origin, routes[2].Destination})
	for _, route := range routes {
		assert.Equal(t, "train", route.Mode)
		assert.NotEqual(t, "Isolated", route.Origin)
		assert.NotEqual(t, "Isolated", route.Destination)
	}

	assert.Equal(t, BatchStats{Pairs: 12, Resolved: 3, Omitted: 9, NotQueried: 0, Searches: 18}, stats)
	assert.Equal(t, 3, observer.outcomes[OUTCOME_RESOLVED])
	assert.Equal(t, 9, observer.outcomes[OUTCOME_OMITTED])

	// parallel and sequential runs agree
	sequential, _, err := RunBatch(context.Background(), selector, pairs, BatchOptions{Workers: 1, Mode: "train"})
	require.NoError(t, err)
	assert.Equal(t, routes, sequential)
}

func TestRunBatchMaxQueries(t *testing.T) {
	selector, _ := _Selector(t)
	pairs := GenerateCityPairs(_Cities(), _PlanarProjection{})

	routes, stats, err := RunBatch(context.Background(), selector, pairs, BatchOptions{Workers: 1, MaxQueries: 1})
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Equal(t, 12, stats.NotQueried)
	assert.Equal(t, 1, stats.Searches)
}

func TestRunBatchCancelled(t *testing.T) {
	selector, _ := _Selector(t)
	pairs := GenerateCityPairs(_Cities(), _PlanarProjection{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stats, err := RunBatch(ctx, selector, pairs, BatchOptions{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 12, stats.NotQueried)
}

func TestQueryBudget(t *testing.T) {
	var unbounded *QueryBudget = NewQueryBudget(0)
	for i := 0; i < 100; i++ {
		assert.True(t, unbounded.Take())
	}
	budget := NewQueryBudget(2)
	assert.True(t, budget.Take())
	assert.True(t, budget.Take())
	assert.False(t, budget.Take())
}
