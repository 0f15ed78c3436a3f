package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"PriceSentinel/internal/collector"
	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/metrics"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/recorder"
	"PriceSentinel/internal/series"
	"PriceSentinel/internal/strategy"
)

// Presenter receives every evaluation and every rejected batch.
type Presenter interface {
	Present(ctx context.Context, symbol string, ev *model.Evaluation) error
	Reject(ctx context.Context, symbol string, cause error) error
}

// Scheduler drives the poll → append → evaluate cycle. Cron ticks fetch
// batches and queue them; Run is the single consumer that owns all writes to
// the store.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Store      *series.Store
	Recorder   recorder.Recorder
	Metrics    *metrics.Metrics
	Presenters []Presenter
	Ctx        context.Context

	batches chan *model.Batch
	pollMu  sync.Mutex // serializes polls so cursors never overlap

	mu      sync.Mutex
	cursor  time.Time // newest timestamp already queued
	current *model.Evaluation
}

// NewScheduler creates a new Scheduler. ctx bounds in-flight fetches.
func NewScheduler(ctx context.Context, col *collector.Collector, store *series.Store, rec recorder.Recorder, m *metrics.Metrics, presenters ...Presenter) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	cl := cronLogger{}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		Collector:  col,
		Store:      store,
		Recorder:   rec,
		Metrics:    m,
		Presenters: presenters,
		Ctx:        ctx,
		batches:    make(chan *model.Batch, 4),
	}
}

// Register schedules the poll task.
func (s *Scheduler) Register(pollCron string) error {
	if _, err := s.Cron.AddFunc(pollCron, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started")
}

// Stop halts future ticks and waits for a running poll to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// PollNow runs one poll immediately.
func (s *Scheduler) PollNow() {
	s.pollTask()
}

// Run consumes queued batches until ctx is cancelled. A batch that has been
// dequeued is always appended and evaluated to completion, unless it was
// collected against a tail the store no longer has.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-s.batches:
			if s.stale(batch) {
				s.Metrics.BatchesDiscarded.Inc()
				logger.Warn("discarding batch of %d points from %s collected after %s, store tail has moved",
					len(batch.Points), batch.Source, batch.After.Format(time.RFC3339))
				s.rewind()
				continue
			}
			s.process(ctx, batch)
		}
	}
}

// stale reports whether batch was collected against a cursor other than the
// store's last point, which happens when an earlier queued batch was rejected.
func (s *Scheduler) stale(batch *model.Batch) bool {
	last, _ := s.Store.Last()
	return !batch.After.Equal(last.Time)
}

// Current returns the latest evaluation, nil before the first one.
func (s *Scheduler) Current() *model.Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	ev := *s.current
	return &ev
}

func (s *Scheduler) pollTask() {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	s.Metrics.PollsTotal.Inc()

	s.mu.Lock()
	after := s.cursor
	s.mu.Unlock()

	batch, err := s.Collector.Collect(s.Ctx, after)
	if err != nil {
		s.Metrics.FetchErrorsTotal.Inc()
		logger.Error("poll %s: %v", s.Collector.Symbol, err)
		return
	}
	if n := len(batch.Points); n > 0 {
		s.mu.Lock()
		// A rejection may have rewound the cursor while this poll was fetching.
		if s.cursor.Equal(after) {
			s.cursor = batch.Points[n-1].Time
		}
		s.mu.Unlock()
	}

	select {
	case s.batches <- batch:
	case <-s.Ctx.Done():
	}
}

func (s *Scheduler) process(ctx context.Context, batch *model.Batch) {
	if err := s.Store.Append(batch.Points); err != nil {
		s.reject(ctx, batch, err)
		return
	}
	if len(batch.Points) > 0 {
		s.Metrics.PointsAppended.Add(float64(len(batch.Points)))
		logger.Debug("appended %d points from %s", len(batch.Points), batch.Source)
		if err := s.Recorder.RecordBatch(batch); err != nil {
			logger.Error("record batch: %v", err)
		}
	}

	start := time.Now()
	ev, err := strategy.Analyze(s.Store.Prices())
	elapsed := time.Since(start)
	if err != nil {
		s.Metrics.EvaluationErrors.Inc()
		logger.Error("evaluate %s: %v", batch.Symbol, err)
	}
	if last, ok := s.Store.Last(); ok {
		ev.LastTime = last.Time
	}

	s.mu.Lock()
	s.current = ev
	s.mu.Unlock()

	s.Metrics.ObserveEvaluation(ev, elapsed.Seconds())
	if err := s.Recorder.RecordEvaluation(batch.Symbol, ev); err != nil {
		logger.Error("record evaluation: %v", err)
	}
	for _, p := range s.Presenters {
		if err := p.Present(ctx, batch.Symbol, ev); err != nil {
			logger.Error("present evaluation: %v", err)
		}
	}
}

func (s *Scheduler) reject(ctx context.Context, batch *model.Batch, cause error) {
	s.Metrics.BatchesRejected.Inc()
	logger.Error("rejected batch of %d points from %s: %v", len(batch.Points), batch.Source, cause)

	s.rewind()

	reason := cause.Error()
	if !errors.Is(cause, series.ErrInvalidSample) {
		reason = "append failed: " + reason
	}
	if err := s.Recorder.RecordRejection(&recorder.Rejection{
		Symbol: batch.Symbol, Source: batch.Source, Points: len(batch.Points), Reason: reason,
	}); err != nil {
		logger.Error("record rejection: %v", err)
	}
	for _, p := range s.Presenters {
		if err := p.Reject(ctx, batch.Symbol, cause); err != nil {
			logger.Error("present rejection: %v", err)
		}
	}
}

// rewind moves the cursor back to the stored tail so the next poll retries
// everything the store has not accepted.
func (s *Scheduler) rewind() {
	last, _ := s.Store.Last()
	s.mu.Lock()
	s.cursor = last.Time
	s.mu.Unlock()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/signal", "/status":
		return notifier.FormatStatus(s.Collector.Symbol, s.Current(), s.Store.Length(), s.Store.Retention())
	case "/poll":
		go s.PollNow()
		return "Polling now"
	default:
		return "Available commands:\n• /signal\n• /status\n• /poll"
	}
}
