package graph

import (
	"github.com/ttpr0/go-cityroutes/comps"
	"github.com/ttpr0/go-cityroutes/structs"
)

//*******************************************
// transit-graph
//******************************************

// Directed multigraph of unified stops and trip legs. Read-only after building.
type TransitGraph struct {
	transit *comps.Transit
}

func NewTransitGraph(transit *comps.Transit) *TransitGraph {
	return &TransitGraph{
		transit: transit,
	}
}

func (self *TransitGraph) GetGraphExplorer() IGraphExplorer {
	return &TransitGraphExplorer{
		graph: self,
	}
}
func (self *TransitGraph) NodeCount() int {
	return self.transit.NodeCount()
}
func (self *TransitGraph) EdgeCount() int {
	return self.transit.LegCount()
}
func (self *TransitGraph) IsNode(node int32) bool {
	return self.transit.IsNode(node)
}
func (self *TransitGraph) GetNode(node int32) structs.UnifiedStop {
	return self.transit.GetNode(node)
}
func (self *TransitGraph) GetEdge(edge int32) structs.TripLeg {
	return self.transit.GetLeg(edge)
}
func (self *TransitGraph) TripCount() int {
	return self.transit.TripCount()
}
func (self *TransitGraph) GetTripID(trip int32) string {
	return self.transit.GetTripID(trip)
}
func (self *TransitGraph) GetTransit() *comps.Transit {
	return self.transit
}

//*******************************************
// transit-graph explorer
//*******************************************

type TransitGraphExplorer struct {
	graph *TransitGraph
}

func (self *TransitGraphExplorer) ForAdjacentEdges(node int32, dir Direction, callback func(EdgeRef)) {
	entries := self.graph.transit.GetAdjacency(node, dir == FORWARD)
	for _, entry := range entries {
		callback(EdgeRef{
			EdgeID:  entry.EdgeID,
			OtherID: entry.OtherID,
		})
	}
}
func (self *TransitGraphExplorer) GetEdge(edge EdgeRef) structs.TripLeg {
	return self.graph.transit.GetLeg(edge.EdgeID)
}
func (self *TransitGraphExplorer) GetOtherNode(edge EdgeRef, node int32) int32 {
	leg := self.graph.transit.GetLeg(edge.EdgeID)
	if node == leg.From {
		return leg.To
	}
	if node == leg.To {
		return leg.From
	}
	return -1
}
