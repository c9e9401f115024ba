package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	// Time series + snapshots
	th := TimeSeriesHandler{DB: d.DB, CfgVal: d.CfgVal}
	mux.HandleFunc("/timeseries", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.Get,
	}))
	mux.HandleFunc("/snapshots/latest", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.Latest,
	}))

	// Run
	rh := RunHandler{
		CfgVal:    d.CfgVal,
		RunStatus: d.RunStatus,
		Hub:       d.Hub,
		RunOnce:   d.RunOnce,
	}
	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Run,
	}))
	mux.HandleFunc("/run/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
