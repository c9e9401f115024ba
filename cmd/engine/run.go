package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"sovtrack-engine/internal/config"
	"sovtrack-engine/internal/domain"
	"sovtrack-engine/internal/loader"
	"sovtrack-engine/internal/run"
	"sovtrack-engine/internal/secrets"
	"sovtrack-engine/internal/serp"
	"sovtrack-engine/internal/sov"
	"sovtrack-engine/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, score, and persist one snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dataDir, _, err := bootstrap()
		if err != nil {
			return err
		}

		// One writer at a time; a second cron invocation backs off
		// instead of interleaving inserts.
		lock := flock.New(filepath.Join(dataDir, "run.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another run is in progress (lock held at %s)", lock.Path())
		}
		defer func() { _ = lock.Unlock() }()

		db, err := store.Open(dbPathFor(dataDir))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := store.Migrate(db.Pool); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		snap, err := runOnce(cmd.Context(), cfg, db)
		if err != nil {
			return err
		}

		if snap.Empty() {
			cmd.Println("no signal today: snapshot is empty, nothing persisted")
			return nil
		}
		cmd.Printf("snapshot %s (%s): %d domains persisted\n", snap.Date, snap.Policy, len(snap.Rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runOnce wires a full cycle from config: credentials, keywords,
// fetcher, policy, orchestration. Shared by `run` and serve's POST /run.
func runOnce(ctx context.Context, cfg config.Config, db *store.DB) (domain.Snapshot, error) {
	apiKey, err := secrets.GetSerpAPIKey(cfg.SerpAPI.KeyringAccount)
	if err != nil {
		return domain.Snapshot{}, err
	}

	queries, err := loader.ReadKeywordsCSV(cfg.Keywords.Path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if len(queries) == 0 {
		return domain.Snapshot{}, run.ErrNoQueries
	}

	policy, err := sov.PolicyByName(cfg.Scoring.Policy)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if policy.Name() == sov.PolicyCTRTable {
		if err := requireVolumes(queries); err != nil {
			return domain.Snapshot{}, err
		}
	}

	client := serp.New(serp.Config{
		BaseURL:           cfg.SerpAPI.BaseURL,
		APIKey:            apiKey,
		HL:                cfg.SerpAPI.HL,
		Timeout:           time.Duration(cfg.SerpAPI.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.SerpAPI.RequestsPerSecond,
		Burst:             cfg.SerpAPI.Burst,
	})

	log.Printf("[run] starting: queries=%d policy=%s parallelism=%d", len(queries), policy.Name(), cfg.Run.Parallelism)

	return run.Once(ctx, run.Params{
		DB:          db.Pool,
		Queries:     queries,
		Fetcher:     client,
		Policy:      policy,
		Parallelism: cfg.Run.Parallelism,
	})
}

func requireVolumes(queries []domain.Query) error {
	missing := 0
	for _, q := range queries {
		if q.SearchVolume <= 0 {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("scoring.policy ctr_table needs search_volume for every keyword; %d of %d rows have none", missing, len(queries))
	}
	return nil
}
