package citypairs

import (
	"errors"
	"fmt"
	"math"

	"github.com/ttpr0/go-cityroutes/comps"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/graph"
	"github.com/ttpr0/go-cityroutes/routing"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

var ErrInvalidRadius = errors.New("search radius must be positive")

//*******************************************
// city pair route
//*******************************************

type CityPairRoute struct {
	Origin      string
	Destination string
	Mode        string
	OriginNode  int32
	DestNode    int32
	OriginStop  string
	DestStop    string
	Legs        List[structs.TripLeg]
	// sum of leg durations in minutes
	Duration float64
	// last departure minus first arrival in minutes
	Elapsed   float64
	Transfers int
	// great-circle km
	Distance float64
	Polyline string
}

type Outcome byte

const (
	OUTCOME_NOT_QUERIED Outcome = 0
	OUTCOME_RESOLVED    Outcome = 1
	OUTCOME_OMITTED     Outcome = 2
)

func (self Outcome) String() string {
	switch self {
	case OUTCOME_RESOLVED:
		return "resolved"
	case OUTCOME_OMITTED:
		return "omitted"
	default:
		return "not_queried"
	}
}

//*******************************************
// route selector
//*******************************************

// Shared read-only state of the selection, use CreateSolver per goroutine.
type RouteSelector struct {
	graph  graph.ITransitGraph
	index  comps.IStopIndex
	params routing.SearchParams
	radius float64
}

func NewRouteSelector(g graph.ITransitGraph, index comps.IStopIndex, params routing.SearchParams, radius float64) (*RouteSelector, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidRadius, radius)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &RouteSelector{
		graph:  g,
		index:  index,
		params: params,
		radius: radius,
	}, nil
}

func (self *RouteSelector) CreateSolver() *RouteSolver {
	return &RouteSolver{
		selector: self,
	}
}

// Budget limits the number of searches, nil means unbounded.
type RouteSolver struct {
	selector *RouteSelector
	Budget   *QueryBudget
	searches int
}

// Number of path searches run by this solver.
func (self *RouteSolver) SearchCount() int {
	return self.searches
}

// Selects the route with minimum summed leg duration among all candidate stop pairs of the city pair.
//
// Candidates are searched origin-major in node order, on equal durations the first found route wins.
// Zero-leg paths are discarded. If the query budget is exhausted before all candidates are searched
// the pair counts as not queried and no route is returned.
func (self *RouteSolver) SelectRoute(pair CityPair) (Optional[CityPairRoute], Outcome) {
	g := self.selector.graph
	origins := self.selector.index.Query(pair.OriginPoint, self.selector.radius)
	dests := self.selector.index.Query(pair.DestPoint, self.selector.radius)

	var best routing.Path
	best_duration := math.Inf(1)
	for _, origin := range origins {
		for _, dest := range dests {
			if !self.Budget.Take() {
				slog.Debug("query budget exhausted", "origin", pair.Origin, "destination", pair.Destination)
				return None[CityPairRoute](), OUTCOME_NOT_QUERIED
			}
			self.searches += 1
			dijkstra := routing.NewTransitDijkstra(g, origin, dest, self.selector.params)
			if dijkstra.CalcShortestPath() != routing.FOUND {
				continue
			}
			path := dijkstra.GetShortestPath()
			if !path.HasLegs() {
				continue
			}
			duration := path.Duration()
			if duration < best_duration {
				best = path
				best_duration = duration
			}
		}
	}
	if math.IsInf(best_duration, 1) {
		slog.Debug("no route found", "origin", pair.Origin, "destination", pair.Destination, "candidates", origins.Length()*dests.Length())
		return None[CityPairRoute](), OUTCOME_OMITTED
	}

	origin_node := best.Nodes[0]
	dest_node := best.Nodes.Last()
	route := CityPairRoute{
		Origin:      pair.Origin,
		Destination: pair.Destination,
		OriginNode:  origin_node,
		DestNode:    dest_node,
		OriginStop:  g.GetNode(origin_node).ID,
		DestStop:    g.GetNode(dest_node).ID,
		Legs:        best.GetLegs(),
		Duration:    best_duration,
		Elapsed:     best.Elapsed(),
		Transfers:   best.Transfers(),
		Distance:    geo.RoundTo(best.Distance(), 2),
		Polyline:    geo.EncodePolyline(best.GetGeometry()),
	}
	return Some(route), OUTCOME_RESOLVED
}
