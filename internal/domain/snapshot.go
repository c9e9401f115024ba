package domain

// DomainWeight accumulates one domain's contributions during a scoring run.
type DomainWeight struct {
	Domain          string
	RawWeight       float64
	Appearances     int
	VerticalRanks   []int
	HorizontalRanks []int
}

// SnapshotRow is one domain's share in a finished run.
type SnapshotRow struct {
	Domain            string  `json:"domain"`
	SOV               float64 `json:"sov"` // percentage 0..100, 2dp
	Appearances       int     `json:"appearances"`
	AvgVerticalRank   float64 `json:"avgVerticalRank"`
	AvgHorizontalRank float64 `json:"avgHorizontalRank"`
}

// Snapshot is one complete normalized SoV computation for one date.
// Rows sum to 100 (within rounding) unless the run produced no weight,
// in which case Rows is empty. Policy names the weight policy the run
// was scored under; snapshots from different policies are not comparable.
type Snapshot struct {
	Date   string        `json:"date"` // 2006-01-02
	Policy string        `json:"policy"`
	Rows   []SnapshotRow `json:"rows"`
}

func (s Snapshot) Empty() bool { return len(s.Rows) == 0 }

// HistoricalRecord is one persisted snapshot row read back from the
// store. (Domain, Date) is not unique: repeated runs on the same day
// produce multiple records, reduced at read time.
type HistoricalRecord struct {
	Domain            string  `json:"domain"`
	SOV               float64 `json:"sov"`
	Appearances       int     `json:"appearances"`
	AvgVerticalRank   float64 `json:"avgVerticalRank"`
	AvgHorizontalRank float64 `json:"avgHorizontalRank"`
	Policy            string  `json:"policy"`
	Date              string  `json:"date"`
}
