package search

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
)

type Retry struct {
	client     Client
	baseDelay  time.Duration
	maxRetries int
}

// Search implements Client.
func (r *Retry) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	backoff := r.baseDelay
	retries := 0
	for {
		results, err := r.client.Search(ctx, query, limit)
		if err == nil {
			return results, nil
		}

		if retries >= r.maxRetries || ctx.Err() != nil {
			return nil, errors.WithStack(err)
		}

		delay := backoff
		if r.baseDelay > 0 {
			delay += time.Duration(rand.Int64N(int64(r.baseDelay)))
		}

		slog.WarnContext(ctx, "search failed, will retry", slog.Duration("backoff", delay), slog.Int("retries", retries), slog.Any("error", errors.WithStack(err)))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.WithStack(ctx.Err())
		case <-timer.C:
		}

		backoff *= 2
		retries++
	}
}

var _ Client = &Retry{}

func WithRetry(client Client, maxRetries int, baseDelay time.Duration) *Retry {
	return &Retry{client: client, maxRetries: maxRetries, baseDelay: baseDelay}
}
