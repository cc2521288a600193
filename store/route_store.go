package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ttpr0/go-cityroutes/batched/citypairs"
	"github.com/ttpr0/go-cityroutes/parser"
	"github.com/ttpr0/go-cityroutes/structs"
	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

var ErrRouteNotFound = errors.New("route not found")

//*******************************************
// route records
//*******************************************

type LegRecord struct {
	TripID    string  `json:"trip_id"`
	Agency    string  `json:"agency"`
	StopFrom  string  `json:"stop_from"`
	StopTo    string  `json:"stop_to"`
	Arrive    string  `json:"arrive_at_source"`
	Depart    string  `json:"depart_from_target"`
	ArriveMin float64 `json:"arrive_at_source_mins"`
	DepartMin float64 `json:"depart_from_target_mins"`
	Duration  float64 `json:"duration_mins"`
}

// Row of the route table, one per (origin, destination, mode).
type RouteRecord struct {
	Origin      string
	Destination string
	Mode        string
	OriginStop  string
	DestStop    string
	OriginNode  int32
	DestNode    int32
	Duration    float64
	Elapsed     float64
	Transfers   int
	Distance    float64
	Polyline    string
	Legs        List[LegRecord]
}

func NewRouteRecord(route citypairs.CityPairRoute) RouteRecord {
	legs := NewList[LegRecord](route.Legs.Length())
	for _, leg := range route.Legs {
		legs.Add(_NewLegRecord(leg))
	}
	return RouteRecord{
		Origin:      route.Origin,
		Destination: route.Destination,
		Mode:        route.Mode,
		OriginStop:  route.OriginStop,
		DestStop:    route.DestStop,
		OriginNode:  route.OriginNode,
		DestNode:    route.DestNode,
		Duration:    route.Duration,
		Elapsed:     route.Elapsed,
		Transfers:   route.Transfers,
		Distance:    route.Distance,
		Polyline:    route.Polyline,
		Legs:        legs,
	}
}

func _NewLegRecord(leg structs.TripLeg) LegRecord {
	return LegRecord{
		TripID:    leg.TripID,
		Agency:    leg.Agency,
		StopFrom:  leg.StopFrom,
		StopTo:    leg.StopTo,
		Arrive:    parser.FormatScheduleTime(leg.ArriveAtSource),
		Depart:    parser.FormatScheduleTime(leg.DepartFromTarget),
		ArriveMin: leg.ArriveAtSource,
		DepartMin: leg.DepartFromTarget,
		Duration:  leg.Duration,
	}
}

//*******************************************
// route store
//*******************************************

// Sqlite table of precomputed city pair routes.
type RouteStore struct {
	conn     *sql.DB
	write_mu sync.Mutex
}

func Open(path string) (*RouteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &RouteStore{conn: conn}, nil
}

func (self *RouteStore) Close() error {
	return self.conn.Close()
}

func (self *RouteStore) EnsureSchema(ctx context.Context) error {
	self.write_mu.Lock()
	defer self.write_mu.Unlock()

	if _, err := self.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Replaces all routes of mode with the given ones in a single transaction.
func (self *RouteStore) ReplaceRoutes(ctx context.Context, mode string, routes List[citypairs.CityPairRoute]) error {
	self.write_mu.Lock()
	defer self.write_mu.Unlock()

	tx, err := self.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE mode = ?`, mode); err != nil {
		return fmt.Errorf("failed to clear routes: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO routes (
			origin, destination, mode, origin_stop, dest_stop, origin_node, dest_node,
			duration_mins, elapsed_mins, transfers, distance_km, polyline, legs
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, route := range routes {
		record := NewRouteRecord(route)
		record.Mode = mode
		legs, err := json.Marshal(record.Legs)
		if err != nil {
			return fmt.Errorf("failed to encode legs: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			record.Origin, record.Destination, record.Mode, record.OriginStop, record.DestStop,
			record.OriginNode, record.DestNode, record.Duration, record.Elapsed, record.Transfers,
			record.Distance, record.Polyline, string(legs),
		)
		if err != nil {
			return fmt.Errorf("failed to insert route %s -> %s: %w", record.Origin, record.Destination, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit routes: %w", err)
	}
	slog.Info(fmt.Sprintf("stored %v %s routes", routes.Length(), mode))
	return nil
}

// Looks up the route of a city pair, returns ErrRouteNotFound if the pair has none.
func (self *RouteStore) Get(ctx context.Context, origin, destination, mode string) (RouteRecord, error) {
	row := self.conn.QueryRowContext(ctx, `
		SELECT origin, destination, mode, origin_stop, dest_stop, origin_node, dest_node,
			duration_mins, elapsed_mins, transfers, distance_km, polyline, legs
		FROM routes
		WHERE origin = ? AND destination = ? AND mode = ?`, origin, destination, mode)

	var record RouteRecord
	var legs string
	err := row.Scan(
		&record.Origin, &record.Destination, &record.Mode, &record.OriginStop, &record.DestStop,
		&record.OriginNode, &record.DestNode, &record.Duration, &record.Elapsed, &record.Transfers,
		&record.Distance, &record.Polyline, &legs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return record, fmt.Errorf("%w: %s -> %s (%s)", ErrRouteNotFound, origin, destination, mode)
	}
	if err != nil {
		return record, fmt.Errorf("failed to query route: %w", err)
	}
	if err := json.Unmarshal([]byte(legs), &record.Legs); err != nil {
		return record, fmt.Errorf("failed to decode legs: %w", err)
	}
	return record, nil
}

func (self *RouteStore) Count(ctx context.Context, mode string) (int, error) {
	var count int
	err := self.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes WHERE mode = ?`, mode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count routes: %w", err)
	}
	return count, nil
}
