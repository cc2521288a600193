package routing

import (
	"errors"
	"fmt"
	"math"

	"github.com/ttpr0/go-cityroutes/graph"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

var ErrInvalidSearchParams = errors.New("invalid search parameters")

//*******************************************
// search parameters
//*******************************************

type SearchParams struct {
	// minutes after midnight
	StartTime float64 `yaml:"start-time" validate:"gte=0,lt=1440"`
	// added when the leg's trip differs from the trip used to reach its source
	TransferPenalty float64 `yaml:"transfer-penalty" validate:"gte=0"`
	// weight of (departure - start time), biases towards earlier departures on otherwise equal costs
	TimePenaltyFactor float64 `yaml:"time-penalty-factor" validate:"gte=0"`
}

func DefaultSearchParams() SearchParams {
	return SearchParams{
		StartTime:         360,
		TransferPenalty:   10,
		TimePenaltyFactor: 0.1,
	}
}

func (self SearchParams) Validate() error {
	if math.IsNaN(self.StartTime) || self.StartTime < 0 || self.StartTime >= structs.MINUTES_PER_DAY {
		return fmt.Errorf("%w: start-time %v not in [0, 1440)", ErrInvalidSearchParams, self.StartTime)
	}
	if !(self.TransferPenalty >= 0) || math.IsInf(self.TransferPenalty, 0) {
		return fmt.Errorf("%w: transfer-penalty %v", ErrInvalidSearchParams, self.TransferPenalty)
	}
	if !(self.TimePenaltyFactor >= 0) || math.IsInf(self.TimePenaltyFactor, 0) {
		return fmt.Errorf("%w: time-penalty-factor %v", ErrInvalidSearchParams, self.TimePenaltyFactor)
	}
	return nil
}

//*******************************************
// time-constrained dijkstra
//*******************************************

type flag_td struct {
	path_length float64
	ref         graph.EdgeRef
	has_ref     bool
	// trip of the leg used to reach the node, -1 at the start
	last_trip int32
	visited   bool
}

// Time-constrained shortest path search over the transit graph.
//
// The cost of a node is the start time plus the penalized cost of the legs leading to it. A leg can only be
// used if the cost at its source is not later than its departure (time of day) at the target. Frontier ties
// are resolved in insertion order, a node keeps the first relaxation among equal costs.
//
// A search instance holds private state and must not be shared between goroutines.
type TransitDijkstra struct {
	heap     PriorityQueue[int32, float64]
	start_id int32
	end_id   int32
	params   SearchParams
	graph    graph.ITransitGraph
	flags    []flag_td
	status   PathStatus
}

func NewTransitDijkstra(g graph.ITransitGraph, start, end int32, params SearchParams) *TransitDijkstra {
	d := TransitDijkstra{graph: g, start_id: start, end_id: end, params: params, status: NOT_QUERIED}

	flags := make([]flag_td, g.NodeCount())
	for i := 0; i < len(flags); i++ {
		flags[i].path_length = math.Inf(1)
		flags[i].last_trip = -1
	}
	d.flags = flags

	d.heap = NewPriorityQueue[int32, float64](100)

	return &d
}

func (self *TransitDijkstra) CalcShortestPath() PathStatus {
	if self.status != NOT_QUERIED {
		return self.status
	}
	if !self.graph.IsNode(self.start_id) || !self.graph.IsNode(self.end_id) {
		self.status = UNREACHABLE
		return self.status
	}
	self.flags[self.start_id].path_length = self.params.StartTime
	if self.start_id == self.end_id {
		self.status = TRIVIAL
		return self.status
	}
	self.heap.Enqueue(self.start_id, self.params.StartTime)

	explorer := self.graph.GetGraphExplorer()
	for {
		curr_id, ok := self.heap.Dequeue()
		if !ok {
			self.status = UNREACHABLE
			return self.status
		}
		curr_flag := self.flags[curr_id]
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		self.flags[curr_id] = curr_flag
		if curr_id == self.end_id {
			self.status = FOUND
			return self.status
		}
		arrival := curr_flag.path_length
		explorer.ForAdjacentEdges(curr_id, graph.FORWARD, func(ref graph.EdgeRef) {
			other_id := ref.OtherID
			other_flag := self.flags[other_id]
			if other_flag.visited {
				return
			}
			leg := explorer.GetEdge(ref)
			if arrival > leg.DepartureClock() {
				return
			}
			transfer := 0.0
			if curr_flag.last_trip != -1 && curr_flag.last_trip != leg.Trip {
				transfer = self.params.TransferPenalty
			}
			time_penalty := (leg.DepartFromTarget - self.params.StartTime) * self.params.TimePenaltyFactor
			new_length := curr_flag.path_length + leg.Duration + transfer + time_penalty
			if new_length < other_flag.path_length {
				other_flag.path_length = new_length
				other_flag.ref = ref
				other_flag.has_ref = true
				other_flag.last_trip = leg.Trip
				self.flags[other_id] = other_flag
				self.heap.Enqueue(other_id, new_length)
			}
		})
	}
}

func (self *TransitDijkstra) GetStatus() PathStatus {
	return self.status
}

// Reconstructs the path found by CalcShortestPath.
//
// Unreachable and not queried searches give a path without nodes, a trivial search a single node path.
func (self *TransitDijkstra) GetShortestPath() Path {
	switch self.status {
	case TRIVIAL:
		nodes := List[int32]{self.start_id}
		return NewPath(self.graph, TRIVIAL, nodes, NewList[int32](0), self.flags[self.start_id].path_length)
	case FOUND:
	default:
		return NewPath(self.graph, self.status, NewList[int32](0), NewList[int32](0), math.Inf(1))
	}

	explorer := self.graph.GetGraphExplorer()
	nodes := NewList[int32](10)
	legs := NewList[int32](10)
	curr_id := self.end_id
	nodes.Add(curr_id)
	for curr_id != self.start_id {
		flag := self.flags[curr_id]
		if !flag.has_ref {
			panic(fmt.Sprintf("missing predecessor of node %v", curr_id))
		}
		legs.Add(flag.ref.EdgeID)
		curr_id = explorer.GetOtherNode(flag.ref, curr_id)
		nodes.Add(curr_id)
	}
	nodes.Reverse()
	legs.Reverse()
	cost := self.flags[self.end_id].path_length
	slog.Debug(fmt.Sprintf("path from %v to %v: %v legs, cost %v", self.start_id, self.end_id, legs.Length(), cost))
	return NewPath(self.graph, FOUND, nodes, legs, cost)
}
