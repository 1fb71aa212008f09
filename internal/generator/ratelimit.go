package generator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited ограничивает частоту исходящих запросов к генератору.
type RateLimited struct {
	next    ImageGenerator
	limiter *rate.Limiter
}

// NewRateLimited пропускает не более burst запросов подряд и далее один за interval.
// Нулевой interval отключает ограничение.
func NewRateLimited(next ImageGenerator, interval time.Duration, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (r *RateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrGenerationFailed, err)
	}
	return r.next.Generate(ctx, prompt)
}
