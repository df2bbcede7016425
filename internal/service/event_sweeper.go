package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type EventCloser interface {
	CloseEndedEvents(ctx context.Context, now time.Time) ([]string, error)
}

// CloseEndedEvents closes every open event whose end time is before now
// and returns how many were closed
func CloseEndedEvents(ctx context.Context, closer EventCloser, now time.Time) (int, error) {
	ids, err := closer.CloseEndedEvents(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("close ended events: %w", err)
	}

	for _, id := range ids {
		zap.L().Info("Event closed", zap.String("event_id", id))
	}

	return len(ids), nil
}

// EventSweeper returns a job for the scheduler. Failures are logged and the
// next run tries again
func EventSweeper(closer EventCloser) Job {
	return func(ctx context.Context) {
		n, err := CloseEndedEvents(ctx, closer, time.Now())
		if err != nil {
			zap.L().Error("Failed to close ended events", zap.Error(err))
			return
		}

		if n > 0 {
			zap.L().Debug("Event sweep finished", zap.Int("closed", n))
		}
	}
}
