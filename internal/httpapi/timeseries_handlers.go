package httpapi

import (
	"database/sql"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"sovtrack-engine/internal/config"
	"sovtrack-engine/internal/history"
	"sovtrack-engine/internal/store"
)

type TimeSeriesHandler struct {
	DB     *sql.DB
	CfgVal *atomic.Value
}

// Get returns the pivoted time series for [from, to]. Bounds default to
// the last 30 days; policy defaults to the configured one so responses
// never mix incomparable weight models unless asked to (policy=all).
func (h TimeSeriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from == "" && to == "" {
		now := time.Now().UTC()
		to = now.Format("2006-01-02")
		from = now.AddDate(0, 0, -30).Format("2006-01-02")
	}
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_date", "dates must look like 2006-01-02")
			return
		}
	}

	policy := strings.TrimSpace(q.Get("policy"))
	if policy == "" {
		policy = h.configuredPolicy()
	}
	if policy == "all" {
		policy = ""
	}

	records, err := store.QueryRecords(r.Context(), h.DB, from, to, policy)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, history.BuildTimeSeries(records, from, to))
}

func (h TimeSeriesHandler) Latest(w http.ResponseWriter, r *http.Request) {
	policy := strings.TrimSpace(r.URL.Query().Get("policy"))
	if policy == "" {
		policy = h.configuredPolicy()
	}
	if policy == "all" {
		policy = ""
	}

	snap, err := store.LatestSnapshot(r.Context(), h.DB, policy)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

func (h TimeSeriesHandler) configuredPolicy() string {
	if h.CfgVal == nil {
		return ""
	}
	if cfg, ok := h.CfgVal.Load().(config.Config); ok {
		return cfg.Scoring.Policy
	}
	return ""
}
