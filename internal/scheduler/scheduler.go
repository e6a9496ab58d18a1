package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is one tick of a recurring job.
type Task func(ctx context.Context) error

// Scheduler runs named tasks on cron specs. Each tick has its own error and
// panic boundary, so a failed tick never prevents the next one.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger{logger})),
		logger: logger,
	}
}

// Add registers task under spec (standard 5-field cron syntax).
func (s *Scheduler) Add(name, spec string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() { s.RunOnce(name, task) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

// RunOnce executes a single tick, logging failures and recovering panics.
func (s *Scheduler) RunOnce(name string, task Task) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked", zap.String("task", name), zap.Any("panic", r))
		}
	}()

	if err := task(context.Background()); err != nil {
		s.logger.Error("scheduled task failed", zap.String("task", name), zap.Error(err))
		return
	}
	s.logger.Info("scheduled task finished", zap.String("task", name), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops new ticks and returns a context that is done when running ticks finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, zap.Any("details", keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
