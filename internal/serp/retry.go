package serp

import (
	"context"
	"errors"
	"log"
	"time"

	"sovtrack-engine/internal/domain"
)

// errTransient marks upstream failures worth retrying (rate limits,
// server errors). Anything else fails the query immediately.
var errTransient = errors.New("transient upstream error")

const maxAttempts = 3

func retryWithBackoff(ctx context.Context, fetch func() ([]domain.SearchResult, error)) ([]domain.SearchResult, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		results, err := fetch()
		if err == nil {
			return results, nil
		}
		lastErr = err

		if !errors.Is(err, errTransient) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(attempt) * 3 * time.Second
		log.Printf("[serp] attempt %d/%d failed: %v (retrying in %s)", attempt, maxAttempts, err, delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}
