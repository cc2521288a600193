package preproc

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

var ErrInvalidResolution = errors.New("grid resolution must be positive")

// namespace of the name-based unified stop ids
var UNIFIED_STOP_NAMESPACE = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cityroutes:unified-stop"))

type UnifyStats struct {
	Stops      int
	Unified    int
	NoLocation int
	Duplicates int
}

//*******************************************
// unify stops
//*******************************************

// Clusters raw stops by snapping their projected coordinates to a grid of the given resolution (km).
//
// Returns the unified stops in first-seen order of their cells and a mapping raw stop id -> node index.
// Stops without location are not mapped. Two stops unify iff their rounded coordinates are identical,
// close stops on different sides of a cell border stay separate.
func UnifyStops(stops List[structs.Stop], proj geo.IProjection, resolution float64) (Array[structs.UnifiedStop], Dict[string, int32], UnifyStats, error) {
	stats := UnifyStats{Stops: stops.Length()}
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return nil, nil, stats, fmt.Errorf("%w: %v", ErrInvalidResolution, resolution)
	}

	mapping := NewDict[string, int32](stops.Length())
	cells := NewDict[geo.Point, int32](stops.Length() / 2)
	clusters := NewList[_Cluster](stops.Length() / 2)
	for i := 0; i < stops.Length(); i++ {
		stop := stops.Get(i)
		if !stop.Loc.HasValue() {
			slog.Debug("excluding stop without location", "stop", stop.ID, "name", stop.Name)
			stats.NoLocation += 1
			continue
		}
		if mapping.ContainsKey(stop.ID) {
			slog.Debug("ignoring duplicate stop id", "stop", stop.ID)
			stats.Duplicates += 1
			continue
		}
		point := proj.Project(stop.Loc.Value)
		cell := point.Round(resolution)
		index, ok := cells[cell]
		if !ok {
			index = int32(clusters.Length())
			cells[cell] = index
			clusters.Add(_Cluster{
				cell:  cell,
				first: stop,
				point: point,
				names: NewDict[string, int](1),
			})
		}
		clusters[index].AddName(stop.Name)
		mapping[stop.ID] = index
	}

	nodes := NewArray[structs.UnifiedStop](clusters.Length())
	for i, cluster := range clusters {
		nodes[i] = structs.UnifiedStop{
			ID:    _CellID(cluster.cell),
			Name:  cluster.Name(),
			Loc:   cluster.first.Loc.Value,
			Point: cluster.point,
		}
	}
	stats.Unified = nodes.Length()

	slog.Info(fmt.Sprintf("unified %v stops into %v nodes (%v without location)", stats.Stops, stats.Unified, stats.NoLocation))
	return nodes, mapping, stats, nil
}

func _CellID(cell geo.Point) string {
	key := fmt.Sprintf("%g:%g", cell.X(), cell.Y())
	return uuid.NewSHA1(UNIFIED_STOP_NAMESPACE, []byte(key)).String()
}

type _Cluster struct {
	cell  geo.Point
	first structs.Stop
	point geo.Point
	// name -> count
	names Dict[string, int]
	// names in first-seen order
	order List[string]
}

func (self *_Cluster) AddName(name string) {
	if !self.names.ContainsKey(name) {
		self.order.Add(name)
	}
	self.names[name] += 1
}

// Most frequent member name, ties go to the first seen.
func (self *_Cluster) Name() string {
	best := ""
	count := 0
	for _, name := range self.order {
		if self.names[name] > count {
			best = name
			count = self.names[name]
		}
	}
	return best
}
