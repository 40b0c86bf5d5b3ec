package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/veracity"
)

// Ensure RetryFetcher implements veracity.Fetcher at compile time.
var _ veracity.Fetcher = (*RetryFetcher)(nil)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// RetryFetcher retries fetches that failed because the origin server was
// unavailable. Every other failure is returned immediately.
type RetryFetcher struct {
	next   veracity.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// NewRetryFetcher wraps next, waiting delays[i] before retry i+1.
func NewRetryFetcher(next veracity.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryFetcher{next: next, delays: delays, logger: logger}
}

// Fetch implements veracity.Fetcher.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		html, err := f.next.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= len(f.delays) || veracity.ErrorReason(err) != veracity.ReasonServerUnavailable {
			return "", lastErr
		}

		f.logger.Debug("retry fetch", "url", url, "attempt", attempt+2, "err", err)

		// The last typed error is more useful to callers than ctx.Err.
		select {
		case <-ctx.Done():
			return "", lastErr
		case <-time.After(f.delays[attempt]):
		}
	}
}
