package transcribe

import (
	"context"
	"time"

	"github.com/transcript-ai/backend/pkg/models"
)

// WithRetry runs fn up to maxRetries+1 times, backing off exponentially
// between attempts. Only transient failures are retried; permanent errors
// and context cancellation return immediately. The returned attempt count
// includes the final one.
func WithRetry(ctx context.Context, maxRetries int, backoff time.Duration,
	fn func(ctx context.Context) (models.ChunkResult, error)) (models.ChunkResult, int, error) {

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return models.ChunkResult{}, attempt, ctx.Err()
			case <-time.After(wait):
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, attempt + 1, nil
		}
		if ctx.Err() != nil {
			return models.ChunkResult{}, attempt + 1, ctx.Err()
		}
		if !models.IsTransient(err) {
			return models.ChunkResult{}, attempt + 1, err
		}
		lastErr = err
	}
	return models.ChunkResult{}, maxRetries + 1, lastErr
}
