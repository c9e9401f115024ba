// Package history reduces persisted snapshot rows into a consistent
// pivoted time series. Multiple runs may land on the same calendar day;
// they are equally valid samples and are reduced by mean, never by
// last-write-wins.
package history

import (
	"sort"

	"sovtrack-engine/internal/domain"
)

// Point is one (domain, date) cell of the pivoted table. Samples counts
// how many stored rows were reduced into the cell; a zero-sample Point
// means the domain did not appear that day, and its SoV is a true 0.
type Point struct {
	SOV               float64 `json:"sov"`
	Appearances       int     `json:"appearances"`
	AvgVerticalRank   float64 `json:"avgVerticalRank"`
	AvgHorizontalRank float64 `json:"avgHorizontalRank"`
	Samples           int     `json:"samples"`
}

// Series is one domain's row, with Points aligned to TimeSeries.Dates.
type Series struct {
	Domain string  `json:"domain"`
	Points []Point `json:"points"`
}

// TimeSeries is a domain-indexed, date-columned table. Series are
// ordered by SoV at the most recent date, descending, ties broken by
// domain name ascending.
type TimeSeries struct {
	Dates  []string `json:"dates"` // ascending, 2006-01-02
	Series []Series `json:"series"`
}

type cell struct {
	sovSum      float64
	appearances int
	vRankSum    float64
	hRankSum    float64
	n           int
}

type key struct {
	domain string
	date   string
}

// BuildTimeSeries filters records to [from, to] inclusive (either bound
// may be empty, meaning unbounded) and pivots them. Dates compare
// lexically, which is correct for the 2006-01-02 encoding. An empty
// input yields an empty, well-typed TimeSeries.
func BuildTimeSeries(records []domain.HistoricalRecord, from, to string) TimeSeries {
	cells := make(map[key]*cell)
	dateSet := make(map[string]bool)
	domainSet := make(map[string]bool)

	for _, r := range records {
		if r.Domain == "" || r.Date == "" {
			continue
		}
		if from != "" && r.Date < from {
			continue
		}
		if to != "" && r.Date > to {
			continue
		}
		k := key{r.Domain, r.Date}
		c, ok := cells[k]
		if !ok {
			c = &cell{}
			cells[k] = c
		}
		c.sovSum += r.SOV
		c.appearances += r.Appearances
		c.vRankSum += r.AvgVerticalRank
		c.hRankSum += r.AvgHorizontalRank
		c.n++
		dateSet[r.Date] = true
		domainSet[r.Domain] = true
	}

	if len(cells) == 0 {
		return TimeSeries{Dates: []string{}, Series: []Series{}}
	}

	ts := TimeSeries{Dates: make([]string, 0, len(dateSet))}
	for d := range dateSet {
		ts.Dates = append(ts.Dates, d)
	}
	sort.Strings(ts.Dates)
	latest := ts.Dates[len(ts.Dates)-1]

	domains := make([]string, 0, len(domainSet))
	for d := range domainSet {
		domains = append(domains, d)
	}

	pointAt := func(dom, date string) Point {
		c, ok := cells[key{dom, date}]
		if !ok {
			return Point{} // absent means zero SoV, not unknown
		}
		n := float64(c.n)
		return Point{
			SOV:               c.sovSum / n,
			Appearances:       c.appearances,
			AvgVerticalRank:   c.vRankSum / n,
			AvgHorizontalRank: c.hRankSum / n,
			Samples:           c.n,
		}
	}

	sort.Slice(domains, func(i, j int) bool {
		vi := pointAt(domains[i], latest).SOV
		vj := pointAt(domains[j], latest).SOV
		if vi != vj {
			return vi > vj
		}
		return domains[i] < domains[j]
	})

	ts.Series = make([]Series, 0, len(domains))
	for _, dom := range domains {
		s := Series{Domain: dom, Points: make([]Point, 0, len(ts.Dates))}
		for _, date := range ts.Dates {
			s.Points = append(s.Points, pointAt(dom, date))
		}
		ts.Series = append(ts.Series, s)
	}
	return ts
}
