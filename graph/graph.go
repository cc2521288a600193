package graph

import (
	"github.com/ttpr0/go-cityroutes/structs"
)

//*******************************************
// graph interfaces
//******************************************

type ITransitGraph interface {
	GetGraphExplorer() IGraphExplorer
	NodeCount() int
	EdgeCount() int
	IsNode(node int32) bool
	GetNode(node int32) structs.UnifiedStop
	GetEdge(edge int32) structs.TripLeg
	GetTripID(trip int32) string
}

// Explorers hold no mutable state, one instance can be shared by many searches.
type IGraphExplorer interface {
	// Iterates through the adjacency of a node calling the callback for every leg.
	//
	// direction tells the traversel direction (FORWARD means outgoing legs, BACKWARD ingoing legs).
	// Legs are visited in the order they were added to the graph.
	ForAdjacentEdges(node int32, dir Direction, callback func(EdgeRef))
	GetEdge(edge EdgeRef) structs.TripLeg
	GetOtherNode(edge EdgeRef, node int32) int32
}
