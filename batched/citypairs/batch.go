package citypairs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	. "github.com/ttpr0/go-cityroutes/util"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

//*******************************************
// query budget
//*******************************************

// Caps the number of path searches across all workers of a batch.
type QueryBudget struct {
	remaining atomic.Int64
}

// Returns nil (unbounded) for max_queries <= 0.
func NewQueryBudget(max_queries int) *QueryBudget {
	if max_queries <= 0 {
		return nil
	}
	budget := &QueryBudget{}
	budget.remaining.Store(int64(max_queries))
	return budget
}

func (self *QueryBudget) Take() bool {
	if self == nil {
		return true
	}
	return self.remaining.Add(-1) >= 0
}

//*******************************************
// batch
//*******************************************

// Receives per-pair results, must be safe for concurrent use.
type IBatchObserver interface {
	ObservePair(outcome Outcome, searches int, elapsed time.Duration)
}

type BatchOptions struct {
	Workers    int
	MaxQueries int
	// label copied to every route
	Mode     string
	Observer IBatchObserver
}

type BatchStats struct {
	Pairs      int
	Resolved   int
	Omitted    int
	NotQueried int
	Searches   int
}

// Resolves all city pairs in parallel.
//
// Routes are returned in the order of their pairs, pairs without a route are absent.
// Only cancellation of ctx aborts the batch.
func RunBatch(ctx context.Context, selector *RouteSelector, pairs List[CityPair], options BatchOptions) (List[CityPairRoute], BatchStats, error) {
	workers := options.Workers
	if workers < 1 {
		workers = 1
	}
	budget := NewQueryBudget(options.MaxQueries)
	results := NewArray[Optional[CityPairRoute]](pairs.Length())
	outcomes := NewArray[Outcome](pairs.Length())
	searches := NewArray[int](pairs.Length())

	group, group_ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := range pairs {
		if group_ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := group_ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			solver := selector.CreateSolver()
			solver.Budget = budget
			route, outcome := solver.SelectRoute(pairs[i])
			results[i] = route
			outcomes[i] = outcome
			searches[i] = solver.SearchCount()
			if options.Observer != nil {
				options.Observer.ObservePair(outcome, solver.SearchCount(), time.Since(start))
			}
			return nil
		})
	}
	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}

	stats := BatchStats{Pairs: pairs.Length()}
	routes := NewList[CityPairRoute](pairs.Length())
	for i, result := range results {
		stats.Searches += searches[i]
		switch outcomes[i] {
		case OUTCOME_RESOLVED:
			stats.Resolved += 1
		case OUTCOME_OMITTED:
			stats.Omitted += 1
		default:
			stats.NotQueried += 1
		}
		if !result.HasValue() {
			continue
		}
		route := result.Value
		route.Mode = options.Mode
		routes.Add(route)
	}
	if err != nil {
		return routes, stats, fmt.Errorf("batch aborted: %w", err)
	}
	slog.Info(fmt.Sprintf("resolved %v of %v city pairs (%v omitted, %v not queried, %v searches)", stats.Resolved, stats.Pairs, stats.Omitted, stats.NotQueried, stats.Searches))
	return routes, stats, nil
}
