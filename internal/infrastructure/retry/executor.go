package retry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/integration"
)

// Executor runs operations against external platforms with bounded retries
// and exponential backoff. Classification rules:
//   - authentication failures (401/403) are returned immediately, retrying
//     cannot fix bad credentials
//   - rate-limit signals (429) back off one exponent longer than generic
//     failures before the next attempt
//   - everything else retries with plain exponential backoff
type Executor struct {
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.Logger
}

// NewExecutor creates an executor. maxAttempts below 1 becomes 1; baseDelay
// at or below zero gets the 1s default.
func NewExecutor(maxAttempts int, baseDelay time.Duration, logger *zap.Logger) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Executor{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger,
	}
}

// Do runs op until it succeeds, fails permanently or the attempt ceiling is
// reached. name labels the operation in logs.
func (e *Executor) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if integration.IsAuthError(lastErr) {
			e.logger.Error("operation failed with auth error, not retrying",
				zap.String("operation", name),
				zap.Error(lastErr))
			return lastErr
		}

		if attempt == e.maxAttempts {
			break
		}

		var delay time.Duration
		if integration.IsRateLimitError(lastErr) {
			delay = e.baseDelay * (1 << uint(attempt))
			e.logger.Warn("operation rate limited, backing off",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
		} else {
			delay = e.baseDelay * (1 << uint(attempt-1))
			e.logger.Warn("operation failed, retrying",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	e.logger.Error("operation failed after all attempts",
		zap.String("operation", name),
		zap.Int("attempts", e.maxAttempts),
		zap.Error(lastErr))
	return lastErr
}
