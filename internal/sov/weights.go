package sov

import (
	"errors"
	"fmt"

	"sovtrack-engine/internal/domain"
)

// ErrInvalidRank is returned for a result or link position <= 0.
var ErrInvalidRank = errors.New("rank must be >= 1")

// Policy is a weight model: how much visibility a (result-rank,
// link-rank) position is worth. Two incompatible models were used to
// produce historical data, so every Snapshot records which policy
// scored it (Name) and the two are never silently mixed.
type Policy interface {
	Name() string
	// Vertical weights the result's position on the page (1 = top).
	Vertical(rank int) (float64, error)
	// Horizontal weights the link's position within one result (1 = first).
	Horizontal(rank int) (float64, error)
	// QueryScale multiplies every contribution from one query.
	QueryScale(q domain.Query) float64
}

const (
	PolicyRankReciprocal = "rank_reciprocal"
	PolicyCTRTable       = "ctr_table"
)

// RankReciprocal weights positions as 1/rank on both axes: a
// dimensionless diminishing-returns model, independent of search volume.
type RankReciprocal struct{}

func (RankReciprocal) Name() string { return PolicyRankReciprocal }

func (RankReciprocal) Vertical(rank int) (float64, error) {
	if rank < 1 {
		return 0, fmt.Errorf("vertical rank %d: %w", rank, ErrInvalidRank)
	}
	return 1 / float64(rank), nil
}

func (RankReciprocal) Horizontal(rank int) (float64, error) {
	if rank < 1 {
		return 0, fmt.Errorf("horizontal rank %d: %w", rank, ErrInvalidRank)
	}
	return 1 / float64(rank), nil
}

func (RankReciprocal) QueryScale(domain.Query) float64 { return 1 }

// ctrByPosition is the click-through-rate estimate per link position.
var ctrByPosition = map[int]float64{
	1: 0.30,
	2: 0.20,
	3: 0.15,
	4: 0.10,
	5: 0.08,
}

const defaultCTR = 0.05 // positions 6+

// CTRTable estimates absolute clicks: a discrete position->CTR lookup
// on the link position, scaled by the query's monthly search volume.
// The result's page position does not enter the estimate, matching how
// historical ctr_table data was produced.
type CTRTable struct{}

func (CTRTable) Name() string { return PolicyCTRTable }

func (CTRTable) Vertical(rank int) (float64, error) {
	if rank < 1 {
		return 0, fmt.Errorf("vertical rank %d: %w", rank, ErrInvalidRank)
	}
	return 1, nil
}

func (CTRTable) Horizontal(rank int) (float64, error) {
	if rank < 1 {
		return 0, fmt.Errorf("horizontal rank %d: %w", rank, ErrInvalidRank)
	}
	if ctr, ok := ctrByPosition[rank]; ok {
		return ctr, nil
	}
	return defaultCTR, nil
}

func (CTRTable) QueryScale(q domain.Query) float64 {
	if q.SearchVolume > 0 {
		return float64(q.SearchVolume)
	}
	return 1
}

// PolicyByName maps a persisted or configured policy tag to its model.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case PolicyRankReciprocal:
		return RankReciprocal{}, nil
	case PolicyCTRTable:
		return CTRTable{}, nil
	default:
		return nil, fmt.Errorf("unknown weight policy %q", name)
	}
}
