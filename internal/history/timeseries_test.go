package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovtrack-engine/internal/domain"
)

func rec(dom, date string, sov float64, appearances int) domain.HistoricalRecord {
	return domain.HistoricalRecord{
		Domain:      dom,
		Date:        date,
		SOV:         sov,
		Appearances: appearances,
		Policy:      "rank_reciprocal",
	}
}

func TestBuildTimeSeriesDuplicateReduction(t *testing.T) {
	records := []domain.HistoricalRecord{
		rec("a.com", "2025-02-01", 50, 4),
		rec("a.com", "2025-02-01", 30, 2),
		rec("a.com", "2025-02-02", 60, 5),
	}

	ts := BuildTimeSeries(records, "", "")
	require.Equal(t, []string{"2025-02-01", "2025-02-02"}, ts.Dates)
	require.Len(t, ts.Series, 1)

	s := ts.Series[0]
	assert.Equal(t, "a.com", s.Domain)
	require.Len(t, s.Points, 2)

	// Same-day runs are equally valid samples: mean of sov, sum of
	// appearances.
	assert.InDelta(t, 40.0, s.Points[0].SOV, 1e-9)
	assert.Equal(t, 6, s.Points[0].Appearances)
	assert.Equal(t, 2, s.Points[0].Samples)
	assert.InDelta(t, 60.0, s.Points[1].SOV, 1e-9)
	assert.Equal(t, 1, s.Points[1].Samples)
}

func TestBuildTimeSeriesReductionOrderInvariant(t *testing.T) {
	forward := []domain.HistoricalRecord{
		rec("x.com", "2025-02-01", 10, 1),
		rec("x.com", "2025-02-01", 20, 1),
	}
	reversed := []domain.HistoricalRecord{
		rec("x.com", "2025-02-01", 20, 1),
		rec("x.com", "2025-02-01", 10, 1),
	}

	a := BuildTimeSeries(forward, "", "")
	b := BuildTimeSeries(reversed, "", "")
	assert.Equal(t, a, b)
	assert.InDelta(t, 15.0, a.Series[0].Points[0].SOV, 1e-9)
}

func TestBuildTimeSeriesZeroFill(t *testing.T) {
	records := []domain.HistoricalRecord{
		rec("a.com", "2025-02-01", 100, 3),
		rec("b.com", "2025-02-02", 100, 2),
	}

	ts := BuildTimeSeries(records, "", "")
	require.Len(t, ts.Series, 2)

	for _, s := range ts.Series {
		require.Len(t, s.Points, 2)
	}

	// b.com leads: it holds the latest date. a.com's missing cell on
	// 2025-02-02 is a true zero, not an absent value.
	assert.Equal(t, "b.com", ts.Series[0].Domain)
	a := ts.Series[1]
	assert.Equal(t, "a.com", a.Domain)
	assert.Equal(t, 0.0, a.Points[1].SOV)
	assert.Equal(t, 0, a.Points[1].Samples)
}

func TestBuildTimeSeriesRangeFilter(t *testing.T) {
	records := []domain.HistoricalRecord{
		rec("a.com", "2025-01-31", 10, 1),
		rec("a.com", "2025-02-01", 20, 1),
		rec("a.com", "2025-02-05", 30, 1),
		rec("a.com", "2025-02-06", 40, 1),
	}

	ts := BuildTimeSeries(records, "2025-02-01", "2025-02-05")
	// Bounds are inclusive on both ends.
	assert.Equal(t, []string{"2025-02-01", "2025-02-05"}, ts.Dates)
}

func TestBuildTimeSeriesOrderingAndTieBreak(t *testing.T) {
	records := []domain.HistoricalRecord{
		rec("zed.com", "2025-02-02", 40, 1),
		rec("ace.com", "2025-02-02", 40, 1),
		rec("big.com", "2025-02-02", 20, 1),
		// big.com dominated the previous day; only the latest date ranks.
		rec("big.com", "2025-02-01", 90, 1),
	}

	ts := BuildTimeSeries(records, "", "")
	got := make([]string, 0, len(ts.Series))
	for _, s := range ts.Series {
		got = append(got, s.Domain)
	}
	assert.Equal(t, []string{"ace.com", "zed.com", "big.com"}, got)
}

func TestBuildTimeSeriesEmpty(t *testing.T) {
	ts := BuildTimeSeries(nil, "", "")
	assert.NotNil(t, ts.Dates)
	assert.NotNil(t, ts.Series)
	assert.Empty(t, ts.Dates)
	assert.Empty(t, ts.Series)

	// A range that excludes everything behaves the same.
	ts = BuildTimeSeries([]domain.HistoricalRecord{
		rec("a.com", "2025-02-01", 50, 1),
	}, "2030-01-01", "2030-12-31")
	assert.Empty(t, ts.Dates)
	assert.Empty(t, ts.Series)
}
