package comps

import (
	"fmt"
	"os"

	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
)

//*******************************************
// transit-data
//*******************************************

// Unified stops and the trip legs between them.
//
// legs are indexed by edge id, trips holds the interned source trip ids (TripLeg.Trip indexes into it).
func NewTransit(nodes Array[structs.UnifiedStop], legs Array[structs.TripLeg], trips Array[string]) *Transit {
	return &Transit{
		nodes:    nodes,
		legs:     legs,
		trips:    trips,
		topology: _BuildTopology(nodes.Length(), legs),
	}
}

type Transit struct {
	nodes    Array[structs.UnifiedStop]
	legs     Array[structs.TripLeg]
	trips    Array[string]
	topology structs.AdjacencyArray
}

func (self *Transit) NodeCount() int {
	return self.nodes.Length()
}
func (self *Transit) GetNode(node int32) structs.UnifiedStop {
	return self.nodes[node]
}
func (self *Transit) IsNode(node int32) bool {
	return node >= 0 && int(node) < self.nodes.Length()
}
func (self *Transit) LegCount() int {
	return self.legs.Length()
}
func (self *Transit) GetLeg(leg int32) structs.TripLeg {
	return self.legs[leg]
}
func (self *Transit) TripCount() int {
	return self.trips.Length()
}
func (self *Transit) GetTripID(trip int32) string {
	return self.trips[trip]
}

// Outgoing (forward) or ingoing legs of a node in insertion order.
func (self *Transit) GetAdjacency(node int32, forward bool) Array[structs.AdjacencyEntry] {
	return self.topology.GetEntries(node, forward)
}

type _TransitMeta struct {
	NodeCount int `json:"node_count"`
	LegCount  int `json:"leg_count"`
	TripCount int `json:"trip_count"`
}

func (self *Transit) _New() *Transit {
	return &Transit{}
}
func (self *Transit) _Load(path string) error {
	meta, err := ReadJSONFromFile[_TransitMeta](path + "-transit_meta.json")
	if err != nil {
		return fmt.Errorf("failed to read transit meta: %w", err)
	}
	nodes, err := ReadGobFromFile[Array[structs.UnifiedStop]](path + "-nodes")
	if err != nil {
		return err
	}
	legs, err := ReadGobFromFile[Array[structs.TripLeg]](path + "-legs")
	if err != nil {
		return err
	}
	trips, err := ReadGobFromFile[Array[string]](path + "-trips")
	if err != nil {
		return err
	}
	if nodes.Length() != meta.NodeCount || legs.Length() != meta.LegCount || trips.Length() != meta.TripCount {
		return fmt.Errorf("transit files at %s do not match meta", path)
	}
	for i, leg := range legs {
		if !(0 <= leg.From && int(leg.From) < nodes.Length()) || !(0 <= leg.To && int(leg.To) < nodes.Length()) {
			return fmt.Errorf("leg %v references unknown node", i)
		}
	}
	*self = *NewTransit(nodes, legs, trips)
	return nil
}
func (self *Transit) _Store(path string) error {
	meta := _TransitMeta{
		NodeCount: self.NodeCount(),
		LegCount:  self.LegCount(),
		TripCount: self.TripCount(),
	}
	if err := WriteGobToFile(self.nodes, path+"-nodes"); err != nil {
		return err
	}
	if err := WriteGobToFile(self.legs, path+"-legs"); err != nil {
		return err
	}
	if err := WriteGobToFile(self.trips, path+"-trips"); err != nil {
		return err
	}
	return WriteJSONToFile(meta, path+"-transit_meta.json")
}
func (self *Transit) _Remove(path string) {
	os.Remove(path + "-nodes")
	os.Remove(path + "-legs")
	os.Remove(path + "-trips")
	os.Remove(path + "-transit_meta.json")
}
