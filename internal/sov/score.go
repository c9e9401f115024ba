package sov

import (
	"sovtrack-engine/internal/domain"
)

// Accum maps registrable domain -> accumulated weight for one or more
// queries. Each run builds its own fresh Accum; the fold is pure and
// two passes over identical input produce identical maps.
type Accum map[string]*domain.DomainWeight

// ScoreQuery folds one query's ranked results into per-domain weights.
// Each contribution is verticalWeight(resultRank) * horizontalWeight(
// linkRank) * policy.QueryScale(q). Links whose URL yields no domain
// are skipped, as are entries with an invalid (<1) rank; neither aborts
// the fold. A domain appearing twice in one result sums both links.
func ScoreQuery(q domain.Query, results []domain.SearchResult, p Policy) Accum {
	acc := make(Accum)
	scale := p.QueryScale(q)

	for _, res := range results {
		v, err := p.Vertical(res.Rank)
		if err != nil {
			continue
		}
		for i, opt := range res.ApplyOptions {
			hRank := i + 1
			h, err := p.Horizontal(hRank)
			if err != nil {
				continue
			}
			d := Normalize(opt.URL)
			if d == "" {
				continue
			}
			acc.add(d, v*h*scale, res.Rank, hRank)
		}
	}
	return acc
}

func (a Accum) add(d string, weight float64, vRank, hRank int) {
	dw, ok := a[d]
	if !ok {
		dw = &domain.DomainWeight{Domain: d}
		a[d] = dw
	}
	dw.RawWeight += weight
	dw.Appearances++
	dw.VerticalRanks = append(dw.VerticalRanks, vRank)
	dw.HorizontalRanks = append(dw.HorizontalRanks, hRank)
}

// Merge combines src into dst. The combine is commutative and
// associative, so per-query accumulators can be merged in any order,
// sequentially or from a partition-then-reduce fan-out.
func Merge(dst, src Accum) {
	for d, sw := range src {
		dw, ok := dst[d]
		if !ok {
			dw = &domain.DomainWeight{Domain: d}
			dst[d] = dw
		}
		dw.RawWeight += sw.RawWeight
		dw.Appearances += sw.Appearances
		dw.VerticalRanks = append(dw.VerticalRanks, sw.VerticalRanks...)
		dw.HorizontalRanks = append(dw.HorizontalRanks, sw.HorizontalRanks...)
	}
}
