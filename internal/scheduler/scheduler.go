// Package scheduler runs named tasks on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
)

// Task is one unit of scheduled work
type Task func(ctx context.Context)

// Scheduler manages cron tasks. Overlapping runs of the same task are
// skipped rather than queued.
type Scheduler struct {
	cron  *cron.Cron
	ctx   context.Context
	log   *logger.Logger
	mu    sync.Mutex
	tasks map[string]registered
}

type registered struct {
	id   cron.EntryID
	spec string
	run  func()
}

// NewScheduler creates a scheduler whose tasks receive ctx. Specs use six
// fields with a leading seconds field, e.g. "0 0 18 * * 1-5".
func NewScheduler(ctx context.Context, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("scheduler"))
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx:   ctx,
		log:   log,
		tasks: make(map[string]registered),
	}
}

// Register adds a named task
func (s *Scheduler) Register(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("task %q already registered", name)
	}

	run := func() {
		if s.ctx.Err() != nil {
			return
		}
		start := time.Now()
		s.log.Info("running task", logger.String("task", name))
		task(s.ctx)
		s.log.Info("task finished",
			logger.String("task", name),
			logger.Duration("elapsed", time.Since(start)))
	}

	id, err := s.cron.AddJob(spec, cron.FuncJob(run))
	if err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	s.tasks[name] = registered{id: id, spec: spec, run: run}
	return nil
}

// Start starts the cron loop in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", logger.Int("tasks", len(s.cron.Entries())))
}

// Stop stops scheduling and waits for running tasks until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow executes a registered task immediately on the calling goroutine
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	t, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown task %q", name)
	}
	t.run()
	return nil
}

// Next returns the next activation time of a task (zero before Start)
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	t, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(t.id).Next, true
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(kvFields(keysAndValues), logger.Err(err))...)
}

func kvFields(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logger.String(fmt.Sprint(kv[i]), fmt.Sprint(kv[i+1])))
	}
	return fields
}
