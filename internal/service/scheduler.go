package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of background work run by the Scheduler
type Job func(ctx context.Context)

// Scheduler runs jobs on cron specs. A job that is still running when its
// next tick comes is skipped and a panicking job doesn't take the process down
type Scheduler struct {
	c   *cron.Cron
	ctx context.Context
}

func NewScheduler() *Scheduler {
	l := cronLogger{zap.S()}

	return &Scheduler{
		c: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		ctx: context.Background(),
	}
}

// Add registers a job under a spec like "@every 1m" or "0 3 * * *"
func (s *Scheduler) Add(name, spec string, j Job) error {
	_, err := s.c.AddFunc(spec, func() {
		j(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s, %w", name, err)
	}

	zap.L().Debug("Job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Start runs the scheduler until ctx is done. Running jobs get to finish
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.c.Start()

	go func() {
		<-ctx.Done()
		<-s.c.Stop().Done()
		zap.L().Debug("Scheduler stopped")
	}()
}

// cronLogger lets cron write through zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
