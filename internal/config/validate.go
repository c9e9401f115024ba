package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults and returns a normalized copy
// plus everything wrong or suspicious about it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	// ---- Defaults ----

	if strings.TrimSpace(out.SerpAPI.BaseURL) == "" {
		out.SerpAPI.BaseURL = "https://serpapi.com"
	}
	if strings.TrimSpace(out.SerpAPI.HL) == "" {
		out.SerpAPI.HL = "en"
	}
	if out.SerpAPI.TimeoutSeconds <= 0 {
		out.SerpAPI.TimeoutSeconds = 30
	}
	if out.SerpAPI.RequestsPerSecond <= 0 {
		out.SerpAPI.RequestsPerSecond = 1.0
	}
	if out.SerpAPI.Burst <= 0 {
		out.SerpAPI.Burst = 1
	}
	if strings.TrimSpace(out.SerpAPI.KeyringAccount) == "" {
		out.SerpAPI.KeyringAccount = "sovtrack:serpapi"
	}
	if strings.TrimSpace(out.Keywords.Path) == "" {
		out.Keywords.Path = "keywords.csv"
	}
	if strings.TrimSpace(out.Scoring.Policy) == "" {
		out.Scoring.Policy = "rank_reciprocal"
	}
	if out.App.Port == 0 {
		out.App.Port = 38514
	}

	// ---- Validation rules ----

	if out.App.Port < 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Scoring.Policy {
	case "rank_reciprocal", "ctr_table":
	default:
		res.addErr("scoring.policy must be rank_reciprocal or ctr_table, got %q", out.Scoring.Policy)
	}

	if !strings.HasPrefix(out.SerpAPI.BaseURL, "http://") && !strings.HasPrefix(out.SerpAPI.BaseURL, "https://") {
		res.addErr("serpapi.base_url must be an http(s) URL, got %q", out.SerpAPI.BaseURL)
	}
	if out.SerpAPI.RequestsPerSecond > 5 {
		res.addWarn("serpapi.requests_per_second is high (%.1f) and may burn API quota.", out.SerpAPI.RequestsPerSecond)
	}

	if out.Run.Parallelism < 0 {
		res.addErr("run.parallelism must be >= 0")
	}
	if out.Run.Parallelism > 8 {
		res.addWarn("run.parallelism %d is above the point of diminishing returns for a metered API.", out.Run.Parallelism)
	}

	return out, res
}
