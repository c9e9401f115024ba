package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"sovtrack-engine/internal/config"
	"sovtrack-engine/internal/domain"
	"sovtrack-engine/internal/events"
)

type RunHandler struct {
	CfgVal    *atomic.Value
	RunStatus *atomic.Value
	Hub       *events.Hub

	RunOnce func(ctx context.Context, cfg config.Config) (domain.Snapshot, error)
}

func (h RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, _ := h.RunStatus.Load().(RunStatus)
	writeJSON(w, st)
}

// Run kicks off one fetch-score-persist cycle in the background and
// returns immediately; progress lands on /run/status and /events.
func (h RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.CfgVal.Load().(config.Config)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "config_unavailable", "config not loaded")
		return
	}

	// Claim the run slot with a compare-and-swap so two simultaneous
	// POSTs cannot both pass a load-then-store check.
	st, _ := h.RunStatus.Load().(RunStatus)
	if st.Running {
		WriteError(w, r, http.StatusConflict, "run_in_progress", "a run is already in progress")
		return
	}
	next := st
	next.Running = true
	next.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	if !h.RunStatus.CompareAndSwap(st, next) {
		WriteError(w, r, http.StatusConflict, "run_in_progress", "a run is already in progress")
		return
	}

	reqID := RequestIDFrom(r.Context())
	go func() {
		snap, err := h.RunOnce(context.Background(), cfg)

		st, _ := h.RunStatus.Load().(RunStatus)
		st.Running = false
		if err != nil {
			st.LastError = err.Error()
			h.RunStatus.Store(st)
			h.Hub.Publish(events.MakeEvent(reqID, "run_failed", 1, map[string]any{"error": err.Error()}))
			return
		}
		st.LastError = ""
		st.LastOkAt = time.Now().UTC().Format(time.RFC3339)
		h.RunStatus.Store(st)

		h.Hub.Publish(events.MakeEvent(reqID, "snapshot_created", 1, map[string]any{
			"date":    snap.Date,
			"policy":  snap.Policy,
			"domains": len(snap.Rows),
			"empty":   snap.Empty(),
		}))
	}()

	writeJSON(w, map[string]any{"ok": true, "started": true})
}
