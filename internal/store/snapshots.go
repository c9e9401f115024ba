package store

import (
	"context"
	"database/sql"
	"fmt"

	"sovtrack-engine/internal/domain"
	"sovtrack-engine/internal/history"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----
	//
	// (domain, date) is deliberately NOT unique: repeated runs on the
	// same day add rows, reduced by mean at read time.

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS share_of_voice (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  domain TEXT NOT NULL,
  sov REAL NOT NULL,
  appearances INTEGER NOT NULL DEFAULT 0,
  avg_vertical_rank REAL NOT NULL DEFAULT 0,
  avg_horizontal_rank REAL NOT NULL DEFAULT 0,
  policy TEXT NOT NULL,
  date TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_sov_date
ON share_of_voice(date);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_sov_domain_date
ON share_of_voice(domain, date);
`); err != nil {
		return err
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertSnapshot persists every row of a finished snapshot in one
// transaction: a partially written run never becomes visible. An empty
// snapshot writes nothing.
func InsertSnapshot(ctx context.Context, db *sql.DB, snap domain.Snapshot) error {
	if snap.Empty() {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO share_of_voice (domain, sov, appearances, avg_vertical_rank, avg_horizontal_rank, policy, date)
VALUES (?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range snap.Rows {
		if _, err := stmt.ExecContext(ctx,
			row.Domain,
			row.SOV,
			row.Appearances,
			row.AvgVerticalRank,
			row.AvgHorizontalRank,
			snap.Policy,
			snap.Date,
		); err != nil {
			return fmt.Errorf("insert snapshot row %q: %w", row.Domain, err)
		}
	}

	return tx.Commit()
}

// QueryRecords reads stored rows in [from, to] inclusive; either bound
// may be "" (unbounded). A non-empty policy restricts rows to one
// weight model so callers never mix incomparable scales by accident.
func QueryRecords(ctx context.Context, db *sql.DB, from, to, policy string) ([]domain.HistoricalRecord, error) {
	query := `
SELECT domain, sov, appearances, avg_vertical_rank, avg_horizontal_rank, policy, date
FROM share_of_voice
WHERE 1=1`
	var args []any
	if from != "" {
		query += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND date <= ?`
		args = append(args, to)
	}
	if policy != "" {
		query += ` AND policy = ?`
		args = append(args, policy)
	}
	query += `
ORDER BY date, domain, id;`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HistoricalRecord
	for rows.Next() {
		var r domain.HistoricalRecord
		if err := rows.Scan(
			&r.Domain,
			&r.SOV,
			&r.Appearances,
			&r.AvgVerticalRank,
			&r.AvgHorizontalRank,
			&r.Policy,
			&r.Date,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestSnapshot reassembles the most recent stored day for one policy.
// Several runs may land on that date; their rows are reduced by mean
// per domain, the same reduction the time series applies, so each
// domain appears once and SoV still sums to 100.
func LatestSnapshot(ctx context.Context, db *sql.DB, policy string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	snap.Policy = policy

	query := `SELECT COALESCE(MAX(date), '') FROM share_of_voice`
	var args []any
	if policy != "" {
		query += ` WHERE policy = ?`
		args = append(args, policy)
	}
	if err := db.QueryRowContext(ctx, query+`;`, args...).Scan(&snap.Date); err != nil {
		return snap, err
	}
	if snap.Date == "" {
		return snap, nil
	}

	records, err := QueryRecords(ctx, db, snap.Date, snap.Date, policy)
	if err != nil {
		return snap, err
	}
	ts := history.BuildTimeSeries(records, snap.Date, snap.Date)
	for _, s := range ts.Series {
		p := s.Points[0]
		snap.Rows = append(snap.Rows, domain.SnapshotRow{
			Domain:            s.Domain,
			SOV:               p.SOV,
			Appearances:       p.Appearances,
			AvgVerticalRank:   p.AvgVerticalRank,
			AvgHorizontalRank: p.AvgHorizontalRank,
		})
	}
	return snap, nil
}
