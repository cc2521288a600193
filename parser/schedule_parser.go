package parser

import (
	"errors"
	"fmt"

	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// schedule parser
//*******************************************

// Reads raw stop records.
//
// Stops without usable coordinates are kept with an empty location so they can be reported by the unifier.
func ParseStops(file string) (List[structs.Stop], ReadStats, error) {
	stats := ReadStats{}
	stops := NewList[structs.Stop](1000)
	for row, err := range ReadCSVFromFile[StopRecord](file, ',') {
		if errors.Is(err, ErrCSVFile) {
			return stops, stats, fmt.Errorf("failed to read stops file %s: %w", file, err)
		}
		stats.Rows += 1
		if err != nil {
			slog.Debug("dropping stop row", "error", err)
			stats.Dropped += 1
			continue
		}
		if row.StopID == "" {
			slog.Debug("dropping stop row without id", "name", row.Name)
			stats.Dropped += 1
			continue
		}
		stop := structs.Stop{
			ID:     row.StopID,
			Name:   row.Name,
			Agency: row.Agency,
			Loc:    None[geo.Coord](),
		}
		lat, lat_ok := _ParseCoordinate(row.Lat)
		lon, lon_ok := _ParseCoordinate(row.Lon)
		if lat_ok && lon_ok {
			coord := geo.NewCoord(lon, lat)
			if coord.IsValid() {
				stop.Loc = Some(coord)
			}
		}
		stops.Add(stop)
	}
	slog.Info(fmt.Sprintf("read %v stops from %s (%v dropped)", stops.Length(), file, stats.Dropped))
	return stops, stats, nil
}

// Reads stop-time rows.
//
// A missing arrival or departure is filled from the other one, rows without any usable time are dropped.
func ParseStopTimes(file string) (List[structs.StopTime], ReadStats, error) {
	stats := ReadStats{}
	stop_times := NewList[structs.StopTime](10000)
	for row, err := range ReadCSVFromFile[StopTimeRecord](file, ',') {
		if errors.Is(err, ErrCSVFile) {
			return stop_times, stats, fmt.Errorf("failed to read stop-times file %s: %w", file, err)
		}
		stats.Rows += 1
		if err != nil {
			slog.Debug("dropping stop-time row", "error", err)
			stats.Dropped += 1
			continue
		}
		stop_time, err := ConvertStopTime(row)
		if err != nil {
			slog.Debug("dropping stop-time row", "trip", row.TripID, "stop", row.StopID, "error", err)
			stats.Dropped += 1
			continue
		}
		stop_times.Add(stop_time)
	}
	slog.Info(fmt.Sprintf("read %v stop-times from %s (%v dropped)", stop_times.Length(), file, stats.Dropped))
	return stop_times, stats, nil
}

func ConvertStopTime(row StopTimeRecord) (structs.StopTime, error) {
	if row.TripID == "" || row.StopID == "" {
		return structs.StopTime{}, errors.New("missing trip or stop id")
	}
	arrival, arr_err := ParseScheduleTime(row.ArrivalTime)
	departure, dep_err := ParseScheduleTime(row.DepartureTime)
	switch {
	case arr_err != nil && dep_err != nil:
		return structs.StopTime{}, errors.Join(arr_err, dep_err)
	case arr_err != nil:
		if row.ArrivalTime != "" {
			return structs.StopTime{}, arr_err
		}
		arrival = departure
	case dep_err != nil:
		if row.DepartureTime != "" {
			return structs.StopTime{}, dep_err
		}
		departure = arrival
	}
	return structs.StopTime{
		TripID:    row.TripID,
		StopID:    row.StopID,
		Sequence:  row.StopSequence,
		Arrival:   arrival,
		Departure: departure,
	}, nil
}
