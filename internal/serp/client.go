// Package serp fetches Google Jobs result pages through the SerpAPI
// HTTP service. It is the only networked collaborator of a scoring
// run; everything it hands to the core is already validated and typed.
package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"sovtrack-engine/internal/domain"
)

type Config struct {
	BaseURL           string
	APIKey            string
	HL                string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	hl         string
	limiter    *rate.Limiter
}

func New(cfg Config) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1.0
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hl := cfg.HL
	if hl == "" {
		hl = "en"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		hl:         hl,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type apiResponse struct {
	Error       string      `json:"error"`
	JobsResults []jobResult `json:"jobs_results"`
}

type jobResult struct {
	Title        string        `json:"title"`
	ApplyOptions []applyOption `json:"apply_options"`
}

type applyOption struct {
	Link string `json:"link"`
}

// FetchJobs runs one google_jobs search and converts the payload into
// ranked SearchResults: vertical rank is page order, horizontal rank is
// apply-option order. A result without apply options (or an option
// without a link) stays in the page but contributes nothing. Transient
// upstream failures (429, 5xx) are retried with backoff before the
// query is declared failed.
func (c *Client) FetchJobs(ctx context.Context, q domain.Query) ([]domain.SearchResult, error) {
	return retryWithBackoff(ctx, func() ([]domain.SearchResult, error) {
		return c.fetchOnce(ctx, q)
	})
}

func (c *Client) fetchOnce(ctx context.Context, q domain.Query) ([]domain.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", q.JobTitle)
	params.Set("location", q.Location)
	params.Set("hl", c.hl)
	params.Set("api_key", c.apiKey)

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("serpapi status %d: %w", resp.StatusCode, errTransient)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("serpapi error: %s", parsed.Error)
	}

	results := make([]domain.SearchResult, 0, len(parsed.JobsResults))
	for i, job := range parsed.JobsResults {
		res := domain.SearchResult{Rank: i + 1}
		for _, opt := range job.ApplyOptions {
			link := strings.TrimSpace(opt.Link)
			if link == "" {
				continue
			}
			res.ApplyOptions = append(res.ApplyOptions, domain.ApplyOption{URL: link})
		}
		results = append(results, res)
	}
	return results, nil
}
