package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ResetTokenCleaner interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanup returns a job that periodically forgets password reset tokens
// that expired and weren't used
func TokenCleanup(c ResetTokenCleaner) Job {
	return func(ctx context.Context) {
		n, err := c.ClearExpiredResetTokens(ctx, time.Now())
		if err != nil {
			zap.L().Error("Failed to cleanup expired reset tokens", zap.Error(err))
			return
		}

		if n > 0 {
			zap.L().Debug("Cleaned up expired reset tokens", zap.Int64("count", n))
		}
	}
}
