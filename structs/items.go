package structs

import (
	"math"

	"github.com/ttpr0/go-cityroutes/geo"
	. "github.com/ttpr0/go-cityroutes/util"
)

const MINUTES_PER_DAY = 1440

//*******************************************
// raw schedule records
//*******************************************

// Boarding location as found in the source schedule.
type Stop struct {
	ID     string
	Name   string
	Agency string
	Loc    Optional[geo.Coord]
}

// One row of a trip's stop sequence.
//
// Times are minutes after midnight of the service day and may exceed 1440 for overnight services.
type StopTime struct {
	TripID    string
	StopID    string
	Sequence  int32
	Arrival   float64
	Departure float64
}

//*******************************************
// graph structs
//*******************************************

// Deduplicated stop, a node of the transit graph.
type UnifiedStop struct {
	ID    string
	Name  string
	Loc   geo.Coord
	Point geo.Point
}

// Scheduled hop between two consecutive stops of a trip, an edge of the transit graph.
type TripLeg struct {
	From     int32
	To       int32
	Trip     int32
	TripID   string
	Agency   string
	Sequence int32
	// arrival at the source stop in minutes (not wrapped)
	ArriveAtSource float64
	// departure from the target stop in minutes (not wrapped)
	DepartFromTarget float64
	Duration         float64
	StopFrom         string
	StopTo           string
	// coordinates of the raw stops, not of the unified nodes
	SourceLoc geo.Coord
	TargetLoc geo.Coord
}

// Departure at the target stop as time of day in [0, 1440).
func (self TripLeg) DepartureClock() float64 {
	return WrapMinutes(self.DepartFromTarget)
}

// Non-negative remainder modulo one day.
func WrapMinutes(minutes float64) float64 {
	m := math.Mod(minutes, MINUTES_PER_DAY)
	if m < 0 {
		m += MINUTES_PER_DAY
	}
	return m
}

//*******************************************
// cities
//*******************************************

type City struct {
	Name string
	Loc  geo.Coord
}
