// Package run orchestrates one fetch-score-aggregate-persist cycle.
package run

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"sovtrack-engine/internal/domain"
	"sovtrack-engine/internal/sov"
	"sovtrack-engine/internal/store"
)

// Fetcher yields one query's ranked results.
type Fetcher interface {
	FetchJobs(ctx context.Context, q domain.Query) ([]domain.SearchResult, error)
}

var ErrNoQueries = errors.New("query list is empty")

const perQueryTimeout = 2 * time.Minute

type Params struct {
	DB      *sql.DB // nil skips persistence (dry runs, tests)
	Queries []domain.Query
	Fetcher Fetcher
	Policy  sov.Policy

	// Parallelism <= 1 keeps the run strictly sequential; above that,
	// queries fan out with a limit and the per-query accumulators are
	// merged with the same associative combine the sequential path uses.
	Parallelism int

	Now time.Time // run execution date; zero means time.Now
}

// Once executes a full cycle. A query whose fetch fails is logged and
// skipped rather than zeroing the whole run; the run itself fails only
// when every query failed. An all-empty run returns an empty Snapshot
// and persists nothing.
func Once(ctx context.Context, p Params) (domain.Snapshot, error) {
	if len(p.Queries) == 0 {
		return domain.Snapshot{}, ErrNoQueries
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	perQuery := make([]sov.Accum, len(p.Queries))
	failed := make([]bool, len(p.Queries))

	fetchAndScore := func(i int) {
		q := p.Queries[i]
		qctx, cancel := context.WithTimeout(ctx, perQueryTimeout)
		defer cancel()

		results, err := p.Fetcher.FetchJobs(qctx, q)
		if err != nil {
			log.Printf("[run] query %q / %q failed, skipping: %v", q.JobTitle, q.Location, err)
			failed[i] = true
			return
		}
		perQuery[i] = sov.ScoreQuery(q, results, p.Policy)
		log.Printf("[run] query %q / %q: results=%d domains=%d", q.JobTitle, q.Location, len(results), len(perQuery[i]))
	}

	if p.Parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(p.Parallelism)
		for i := range p.Queries {
			g.Go(func() error {
				fetchAndScore(i)
				return nil // best-effort: don’t cancel siblings
			})
		}
		_ = g.Wait()
	} else {
		for i := range p.Queries {
			fetchAndScore(i)
		}
	}

	nFailed := 0
	scored := make([]sov.Accum, 0, len(perQuery))
	for i, acc := range perQuery {
		if failed[i] {
			nFailed++
			continue
		}
		scored = append(scored, acc)
	}
	if nFailed == len(p.Queries) {
		return domain.Snapshot{}, fmt.Errorf("all %d queries failed", nFailed)
	}

	snap := sov.Aggregate(scored, p.Policy, now)
	if snap.Empty() {
		log.Printf("[run] no signal today: total weight is zero (queries=%d failed=%d)", len(p.Queries), nFailed)
		return snap, nil
	}

	if p.DB != nil {
		insertCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := store.InsertSnapshot(insertCtx, p.DB, snap); err != nil {
			return snap, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	log.Printf("[run] snapshot date=%s policy=%s domains=%d failed_queries=%d",
		snap.Date, snap.Policy, len(snap.Rows), nFailed)
	return snap, nil
}
