package structs

import (
	. "github.com/ttpr0/go-cityroutes/util"
)

//*******************************************
// adjacency list
//*******************************************

type AdjacencyEntry struct {
	EdgeID  int32
	OtherID int32
}

// Mutable per-node adjacency used while building.
type AdjacencyList struct {
	fwd_entries Array[List[AdjacencyEntry]]
	bwd_entries Array[List[AdjacencyEntry]]
}

func NewAdjacencyList(node_count int) AdjacencyList {
	return AdjacencyList{
		fwd_entries: NewArray[List[AdjacencyEntry]](node_count),
		bwd_entries: NewArray[List[AdjacencyEntry]](node_count),
	}
}

func (self *AdjacencyList) NodeCount() int {
	return self.fwd_entries.Length()
}

// Adds forward entry at node_a and backward entry at node_b.
func (self *AdjacencyList) AddEdgeEntries(node_a, node_b, edge_id int32) {
	fwd := self.fwd_entries[node_a]
	fwd.Add(AdjacencyEntry{EdgeID: edge_id, OtherID: node_b})
	self.fwd_entries[node_a] = fwd
	bwd := self.bwd_entries[node_b]
	bwd.Add(AdjacencyEntry{EdgeID: edge_id, OtherID: node_a})
	self.bwd_entries[node_b] = bwd
}

//*******************************************
// adjacency array
//*******************************************

type _NodeRef struct {
	FWDStart int32
	FWDCount int32
	BWDStart int32
	BWDCount int32
}

// Immutable compressed adjacency. Entries of a node keep the order they were added in.
type AdjacencyArray struct {
	NodeRefs   Array[_NodeRef]
	FWDEntries Array[AdjacencyEntry]
	BWDEntries Array[AdjacencyEntry]
}

func AdjacencyListToArray(list *AdjacencyList) *AdjacencyArray {
	node_count := list.NodeCount()
	node_refs := NewArray[_NodeRef](node_count)
	fwd_count := 0
	bwd_count := 0
	for i := 0; i < node_count; i++ {
		fwd_count += list.fwd_entries[i].Length()
		bwd_count += list.bwd_entries[i].Length()
	}
	fwd_entries := NewList[AdjacencyEntry](fwd_count)
	bwd_entries := NewList[AdjacencyEntry](bwd_count)
	for i := 0; i < node_count; i++ {
		fwd := list.fwd_entries[i]
		bwd := list.bwd_entries[i]
		node_refs[i] = _NodeRef{
			FWDStart: int32(fwd_entries.Length()),
			FWDCount: int32(fwd.Length()),
			BWDStart: int32(bwd_entries.Length()),
			BWDCount: int32(bwd.Length()),
		}
		for _, entry := range fwd {
			fwd_entries.Add(entry)
		}
		for _, entry := range bwd {
			bwd_entries.Add(entry)
		}
	}
	return &AdjacencyArray{
		NodeRefs:   node_refs,
		FWDEntries: Array[AdjacencyEntry](fwd_entries),
		BWDEntries: Array[AdjacencyEntry](bwd_entries),
	}
}

func (self *AdjacencyArray) NodeCount() int {
	return self.NodeRefs.Length()
}

// Returns the outgoing (forward) or ingoing entries of a node.
func (self *AdjacencyArray) GetEntries(node int32, forward bool) Array[AdjacencyEntry] {
	ref := self.NodeRefs[node]
	if forward {
		return self.FWDEntries[ref.FWDStart : ref.FWDStart+ref.FWDCount]
	}
	return self.BWDEntries[ref.BWDStart : ref.BWDStart+ref.BWDCount]
}
