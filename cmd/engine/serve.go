package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"sovtrack-engine/internal/config"
	"sovtrack-engine/internal/domain"
	"sovtrack-engine/internal/events"
	"sovtrack-engine/internal/httpapi"
	"sovtrack-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the time-series query API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dataDir, cfgPath, err := bootstrap()
		if err != nil {
			return err
		}

		db, err := store.Open(dbPathFor(dataDir))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := store.Migrate(db.Pool); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		hub := events.NewHub()

		var cfgVal atomic.Value
		cfgVal.Store(cfg)
		var runStatus atomic.Value
		runStatus.Store(httpapi.RunStatus{})

		mux := httpapi.NewMux(httpapi.Deps{
			DB:        db.Pool,
			Hub:       hub,
			CfgVal:    &cfgVal,
			RunStatus: &runStatus,
			RunOnce: func(ctx context.Context, cfg config.Config) (domain.Snapshot, error) {
				// Same lock `engine run` takes, so a cron run and a
				// serve-triggered run cannot interleave inserts.
				lock := flock.New(filepath.Join(dataDir, "run.lock"))
				locked, err := lock.TryLock()
				if err != nil {
					return domain.Snapshot{}, fmt.Errorf("acquire run lock: %w", err)
				}
				if !locked {
					return domain.Snapshot{}, fmt.Errorf("another run is in progress (lock held at %s)", lock.Path())
				}
				defer func() { _ = lock.Unlock() }()
				return runOnce(ctx, cfg, db)
			},
		})

		addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		log.Printf("engine listening on http://%s (db=%s config=%s)", addr, dbPathFor(dataDir), cfgPath)

		srv := &http.Server{
			Handler: httpapi.Chain(mux,
				httpapi.RequestID,
				httpapi.Recover,
				httpapi.AccessLog,
				httpapi.Cors,
			),
			ReadHeaderTimeout: 5 * time.Second,
		}
		return srv.Serve(ln)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
