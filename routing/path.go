package routing

import (
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/graph"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
)

//*******************************************
// path status
//*******************************************

type PathStatus byte

const (
	NOT_QUERIED PathStatus = 0
	FOUND       PathStatus = 1
	// origin equals destination
	TRIVIAL     PathStatus = 2
	UNREACHABLE PathStatus = 3
)

func (self PathStatus) String() string {
	switch self {
	case NOT_QUERIED:
		return "not_queried"
	case FOUND:
		return "found"
	case TRIVIAL:
		return "trivial"
	case UNREACHABLE:
		return "unreachable"
	default:
		return "unknown"
	}
}

//*******************************************
// path
//*******************************************

// Result of a single search. Nodes has one entry more than Legs unless the path is empty.
type Path struct {
	Status PathStatus
	Nodes  List[int32]
	Legs   List[int32]
	// penalized search cost at the destination
	Cost float64

	graph graph.ITransitGraph
}

func NewPath(g graph.ITransitGraph, status PathStatus, nodes, legs List[int32], cost float64) Path {
	return Path{
		Status: status,
		Nodes:  nodes,
		Legs:   legs,
		Cost:   cost,
		graph:  g,
	}
}

func (self Path) HasLegs() bool {
	return self.Legs.Length() > 0
}

func (self Path) GetLegs() List[structs.TripLeg] {
	legs := NewList[structs.TripLeg](self.Legs.Length())
	for _, id := range self.Legs {
		legs.Add(self.graph.GetEdge(id))
	}
	return legs
}

// Sum of the leg durations in minutes.
func (self Path) Duration() float64 {
	duration := 0.0
	for _, id := range self.Legs {
		duration += self.graph.GetEdge(id).Duration
	}
	return duration
}

// Minutes between the arrival at the first stop and the departure at the last stop.
func (self Path) Elapsed() float64 {
	if !self.HasLegs() {
		return 0
	}
	first := self.graph.GetEdge(self.Legs[0])
	last := self.graph.GetEdge(self.Legs.Last())
	return last.DepartFromTarget - first.ArriveAtSource
}

// Number of trip changes along the path.
func (self Path) Transfers() int {
	count := 0
	for i := 1; i < self.Legs.Length(); i++ {
		if self.graph.GetEdge(self.Legs[i-1]).Trip != self.graph.GetEdge(self.Legs[i]).Trip {
			count += 1
		}
	}
	return count
}

// Great-circle length in km between the raw stops of every leg, each leg rounded to 2 decimals before summing.
func (self Path) Distance() float64 {
	dist := 0.0
	for _, id := range self.Legs {
		leg := self.graph.GetEdge(id)
		dist += geo.RoundTo(geo.HaversineKM(leg.SourceLoc, leg.TargetLoc), 2)
	}
	return dist
}

// Raw source stop coordinates of all legs followed by the target stop of the last one.
func (self Path) GetGeometry() geo.CoordArray {
	coords := make(geo.CoordArray, 0, self.Legs.Length()+1)
	for _, id := range self.Legs {
		coords = append(coords, self.graph.GetEdge(id).SourceLoc)
	}
	if self.HasLegs() {
		coords = append(coords, self.graph.GetEdge(self.Legs.Last()).TargetLoc)
	}
	return coords
}
