package comps

import (
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
)

//*******************************************
// build graph components
//*******************************************

func _BuildTopology(node_count int, legs Array[structs.TripLeg]) structs.AdjacencyArray {
	dyn := structs.NewAdjacencyList(node_count)
	for id, leg := range legs {
		dyn.AddEdgeEntries(leg.From, leg.To, int32(id))
	}
	return *structs.AdjacencyListToArray(&dyn)
}
