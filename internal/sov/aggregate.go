package sov

import (
	"math"
	"sort"
	"time"

	"sovtrack-engine/internal/domain"
)

// Aggregate merges per-query accumulators and normalizes raw weights to
// a share-of-voice percentage set that sums to 100. SoV values are
// relative shares within this run only. When total weight is zero the
// Snapshot is empty; "no signal today" is a valid outcome, distinct
// from a snapshot of all-zero domains, which cannot occur.
//
// Every row carries the run's execution date and the weight policy tag.
func Aggregate(perQuery []Accum, p Policy, date time.Time) domain.Snapshot {
	snap := domain.Snapshot{
		Date:   date.Format("2006-01-02"),
		Policy: p.Name(),
	}

	total := make(Accum)
	for _, acc := range perQuery {
		Merge(total, acc)
	}

	var totalWeight float64
	for _, dw := range total {
		totalWeight += dw.RawWeight
	}
	if totalWeight <= 0 {
		return snap
	}

	snap.Rows = make([]domain.SnapshotRow, 0, len(total))
	for _, dw := range total {
		snap.Rows = append(snap.Rows, domain.SnapshotRow{
			Domain:            dw.Domain,
			SOV:               round2(dw.RawWeight / totalWeight * 100),
			Appearances:       dw.Appearances,
			AvgVerticalRank:   round2(meanInt(dw.VerticalRanks)),
			AvgHorizontalRank: round2(meanInt(dw.HorizontalRanks)),
		})
	}

	sort.Slice(snap.Rows, func(i, j int) bool {
		if snap.Rows[i].SOV != snap.Rows[j].SOV {
			return snap.Rows[i].SOV > snap.Rows[j].SOV
		}
		return snap.Rows[i].Domain < snap.Rows[j].Domain
	})
	return snap
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func meanInt(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
