package parser

//*******************************************
// parser structs
//*******************************************

type StopRecord struct {
	StopID string `csv:"stop_id"`
	Name   string `csv:"stop_name"`
	Lat    string `csv:"stop_lat"`
	Lon    string `csv:"stop_lon"`
	Agency string `csv:"agency_name"`
}

type StopTimeRecord struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  int32  `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

type CityRecord struct {
	City string `csv:"city"`
	Lat  string `csv:"city_latitude"`
	Lon  string `csv:"city_longitude"`
}

// Counts of rows read and dropped by a parser.
type ReadStats struct {
	Rows    int
	Dropped int
}
