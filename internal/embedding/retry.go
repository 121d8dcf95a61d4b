// ABOUTME: Retry decorator for embedding providers
// ABOUTME: Retries rate-limit and network failures with exponential backoff
package embedding

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/util"
)

type retryProvider struct {
	inner      Provider
	maxRetries int
	baseDelay  time.Duration
	logger     *log.Logger
}

// WithRetry wraps p so RateLimited and NetworkError failures are retried up to
// maxRetries times. InvalidKey and BadResponse are returned immediately.
func WithRetry(p Provider, maxRetries int, baseDelay time.Duration, logger *log.Logger) Provider {
	if maxRetries <= 0 {
		return p
	}
	if logger == nil {
		logger = log.Default()
	}
	return &retryProvider{
		inner:      p,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (r *retryProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := util.CalculateBackoff(r.baseDelay, attempt)
			r.logger.Debug("retrying embedding", "attempt", attempt+1, "delay", delay, "err", lastErr)
			if err := util.Sleep(ctx, delay); err != nil {
				return nil, lastErr
			}
		}

		vec, err := r.inner.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err

		if !IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}

	r.logger.Warn("embedding failed after retries", "attempts", r.maxRetries+1, "err", lastErr)
	return nil, lastErr
}

func (r *retryProvider) Dimension() int {
	return r.inner.Dimension()
}
