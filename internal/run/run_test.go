package run

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovtrack-engine/internal/domain"
	"sovtrack-engine/internal/sov"
)

type fakeFetcher struct {
	pages map[string][]domain.SearchResult
	fail  map[string]bool
}

func (f *fakeFetcher) FetchJobs(_ context.Context, q domain.Query) ([]domain.SearchResult, error) {
	if f.fail[q.JobTitle] {
		return nil, errors.New("upstream exploded")
	}
	return f.pages[q.JobTitle], nil
}

func page(rank int, urls ...string) []domain.SearchResult {
	res := domain.SearchResult{Rank: rank}
	for _, u := range urls {
		res.ApplyOptions = append(res.ApplyOptions, domain.ApplyOption{URL: u})
	}
	return []domain.SearchResult{res}
}

var runDate = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func TestOnceProducesSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string][]domain.SearchResult{
		"a-query": page(1, "https://a.com/1", "https://b.com/1"),
		"b-query": page(2, "https://a.com/2"),
	}}

	snap, err := Once(context.Background(), Params{
		Queries: []domain.Query{
			{JobTitle: "a-query", Location: "X"},
			{JobTitle: "b-query", Location: "Y"},
		},
		Fetcher: fetcher,
		Policy:  sov.RankReciprocal{},
		Now:     runDate,
	})
	require.NoError(t, err)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "2025-02-01", snap.Date)
	assert.Equal(t, 75.0, snap.Rows[0].SOV)
	assert.Equal(t, 25.0, snap.Rows[1].SOV)
}

func TestOnceParallelMatchesSequential(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string][]domain.SearchResult{
		"q1": page(1, "https://a.com/1", "https://b.com/1"),
		"q2": page(2, "https://b.com/2"),
		"q3": page(3, "https://c.com/1", "https://a.com/3"),
		"q4": page(1, "https://c.com/2"),
	}}
	queries := []domain.Query{
		{JobTitle: "q1", Location: "X"},
		{JobTitle: "q2", Location: "X"},
		{JobTitle: "q3", Location: "X"},
		{JobTitle: "q4", Location: "X"},
	}

	seq, err := Once(context.Background(), Params{
		Queries: queries, Fetcher: fetcher, Policy: sov.RankReciprocal{}, Now: runDate,
	})
	require.NoError(t, err)

	par, err := Once(context.Background(), Params{
		Queries: queries, Fetcher: fetcher, Policy: sov.RankReciprocal{},
		Parallelism: 4, Now: runDate,
	})
	require.NoError(t, err)

	// The combine is associative and commutative, so fan-out order
	// cannot change the result.
	assert.Equal(t, seq, par)
}

func TestOnceSkipsFailedQueries(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string][]domain.SearchResult{
			"good": page(1, "https://a.com/1"),
		},
		fail: map[string]bool{"bad": true},
	}

	snap, err := Once(context.Background(), Params{
		Queries: []domain.Query{
			{JobTitle: "good", Location: "X"},
			{JobTitle: "bad", Location: "X"},
		},
		Fetcher: fetcher,
		Policy:  sov.RankReciprocal{},
		Now:     runDate,
	})
	require.NoError(t, err, "one bad query must not zero the run")
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, 100.0, snap.Rows[0].SOV)
}

func TestOnceAllQueriesFailed(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]bool{"bad1": true, "bad2": true}}

	_, err := Once(context.Background(), Params{
		Queries: []domain.Query{
			{JobTitle: "bad1", Location: "X"},
			{JobTitle: "bad2", Location: "X"},
		},
		Fetcher: fetcher,
		Policy:  sov.RankReciprocal{},
		Now:     runDate,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 queries failed")
}

func TestOnceNoQueries(t *testing.T) {
	_, err := Once(context.Background(), Params{
		Fetcher: &fakeFetcher{},
		Policy:  sov.RankReciprocal{},
	})
	assert.ErrorIs(t, err, ErrNoQueries)
}

func TestOnceEmptySignal(t *testing.T) {
	// Queries succeed but no result carries a usable link.
	fetcher := &fakeFetcher{pages: map[string][]domain.SearchResult{
		"q": {{Rank: 1}},
	}}

	snap, err := Once(context.Background(), Params{
		Queries: []domain.Query{{JobTitle: "q", Location: "X"}},
		Fetcher: fetcher,
		Policy:  sov.RankReciprocal{},
		Now:     runDate,
	})
	require.NoError(t, err, "no signal is a valid outcome, not a failure")
	assert.True(t, snap.Empty())
	assert.Equal(t, "2025-02-01", snap.Date)
}
