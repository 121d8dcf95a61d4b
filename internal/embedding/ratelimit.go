// ABOUTME: Rate-limiting decorator for embedding providers
// ABOUTME: Throttles Embed calls with a token bucket from x/time/rate
package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p so at most rps calls per second are made, with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(p Provider, rps float64, burst int) Provider {
	if rps <= 0 {
		return p
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *rateLimitedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, text)
}

func (r *rateLimitedProvider) Dimension() int {
	return r.inner.Dimension()
}
