package comps

import (
	"math"

	"github.com/tidwall/rtree"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slices"
)

// *******************************************
// stop index interface
// *******************************************

type IStopIndex interface {
	// Returns all nodes within radius (km) of point, ordered by node id.
	Query(point geo.Point, radius float64) List[int32]
}

//*******************************************
// stop index
//*******************************************

// R-tree over the planar coordinates of the unified stops.
//
// The tree is never modified after construction and may be queried concurrently.
type StopIndex struct {
	index  rtree.RTreeG[int32]
	points Array[geo.Point]
}

func NewStopIndex(nodes Array[structs.UnifiedStop]) *StopIndex {
	index := &StopIndex{
		points: NewArray[geo.Point](nodes.Length()),
	}
	for i, node := range nodes {
		index.points[i] = node.Point
		index.index.Insert(node.Point, node.Point, int32(i))
	}
	return index
}

func (self *StopIndex) Query(point geo.Point, radius float64) List[int32] {
	result := NewList[int32](4)
	if !(radius >= 0) || math.IsInf(radius, 0) {
		return result
	}
	min := [2]float64{point[0] - radius, point[1] - radius}
	max := [2]float64{point[0] + radius, point[1] + radius}
	self.index.Search(min, max, func(_, _ [2]float64, node int32) bool {
		// bounding box candidates are filtered by exact distance
		if self.points[node].DistanceTo(point) <= radius {
			result.Add(node)
		}
		return true
	})
	slices.Sort(result)
	return result
}

func (self *StopIndex) NodeCount() int {
	return self.points.Length()
}
