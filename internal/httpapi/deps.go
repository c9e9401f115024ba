package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"sovtrack-engine/internal/config"
	"sovtrack-engine/internal/domain"
	"sovtrack-engine/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal    *atomic.Value // stores config.Config
	RunStatus *atomic.Value // stores httpapi.RunStatus

	// Run entrypoint
	RunOnce func(ctx context.Context, cfg config.Config) (domain.Snapshot, error)
}

type RunStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Running   bool   `json:"running"`
}
