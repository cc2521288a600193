package graph

import (
	"cmp"
	"fmt"

	"github.com/ttpr0/go-cityroutes/comps"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

type BuildStats struct {
	Trips    int
	Legs     int
	Unmapped int
	// consecutive rows whose sequence numbers are not adjacent
	Gaps int
}

//*******************************************
// build graphs
//*******************************************

// Builds the transit graph from stop-time rows.
//
// Rows are grouped by trip and ordered by stop sequence. A row is linked to the row with the next
// sequence number (sequence+1) of the same trip if both stops are mapped to a node. Pairs touching an
// unmapped stop and pairs across a missing sequence number are dropped without bridging.
// Agencies and coordinates of the legs are taken from the raw stops.
func BuildTransitGraph(nodes Array[structs.UnifiedStop], stop_times List[structs.StopTime], mapping Dict[string, int32], stops List[structs.Stop]) (*TransitGraph, BuildStats) {
	stats := BuildStats{}

	agencies := NewDict[string, string](stops.Length())
	locations := NewDict[string, geo.Coord](stops.Length())
	for _, stop := range stops {
		if agencies.ContainsKey(stop.ID) {
			continue
		}
		agencies[stop.ID] = stop.Agency
		if stop.Loc.HasValue() {
			locations[stop.ID] = stop.Loc.Value
		}
	}

	// group rows by trip in first-seen order
	trip_ids := NewList[string](100)
	trip_mapping := NewDict[string, int32](100)
	trip_rows := NewList[List[structs.StopTime]](100)
	for _, row := range stop_times {
		trip, ok := trip_mapping[row.TripID]
		if !ok {
			trip = int32(trip_ids.Length())
			trip_mapping[row.TripID] = trip
			trip_ids.Add(row.TripID)
			trip_rows.Add(NewList[structs.StopTime](10))
		}
		trip_rows[trip].Add(row)
	}
	stats.Trips = trip_ids.Length()

	legs := NewList[structs.TripLeg](stop_times.Length())
	for trip, rows := range trip_rows {
		slices.SortStableFunc(rows, func(a, b structs.StopTime) int {
			return cmp.Compare(a.Sequence, b.Sequence)
		})
		for i := 0; i+1 < rows.Length(); i++ {
			source := rows[i]
			target := rows[i+1]
			if target.Sequence != source.Sequence+1 {
				stats.Gaps += 1
				continue
			}
			from, from_ok := mapping[source.StopID]
			to, to_ok := mapping[target.StopID]
			if !from_ok || !to_ok {
				stats.Unmapped += 1
				continue
			}
			legs.Add(structs.TripLeg{
				From:             from,
				To:               to,
				Trip:             int32(trip),
				TripID:           source.TripID,
				Agency:           agencies[source.StopID],
				Sequence:         source.Sequence,
				ArriveAtSource:   source.Arrival,
				DepartFromTarget: target.Departure,
				Duration:         structs.WrapMinutes(target.Departure - source.Arrival),
				StopFrom:         source.StopID,
				StopTo:           target.StopID,
				SourceLoc:        locations[source.StopID],
				TargetLoc:        locations[target.StopID],
			})
		}
	}
	stats.Legs = legs.Length()
	if stats.Unmapped > 0 {
		slog.Debug(fmt.Sprintf("dropped %v stop pairs with unmapped stops", stats.Unmapped))
	}
	if stats.Gaps > 0 {
		slog.Debug(fmt.Sprintf("dropped %v stop pairs with non-adjacent sequence numbers", stats.Gaps))
	}
	slog.Info(fmt.Sprintf("built transit graph with %v nodes, %v legs from %v trips", nodes.Length(), stats.Legs, stats.Trips))

	transit := comps.NewTransit(nodes, Array[structs.TripLeg](legs), Array[string](trip_ids))
	return NewTransitGraph(transit), stats
}
