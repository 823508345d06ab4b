package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/source"
)

const MsgRefreshPaused = "Auto-refresh paused"

// ErrAlreadyRunning is returned by Start while the refresh loop is running.
var ErrAlreadyRunning = errors.New("auto-refresh is already running")

// Scheduler refreshes the current patient's vitals at a fixed interval.
type Scheduler struct {
	source    source.VitalsSource
	pipeline  *Pipeline
	patientID func() string
	interval  time.Duration
	clock     clock.WithTicker
	log       audit.Appender
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
	exited  chan struct{}
}

// NewScheduler creates a stopped scheduler. patientID is asked for the
// patient to fetch on every cycle.
func NewScheduler(src source.VitalsSource, pipeline *Pipeline, patientID func() string, interval time.Duration, clk clock.WithTicker, log audit.Appender, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		source:    src,
		pipeline:  pipeline,
		patientID: patientID,
		interval:  interval,
		clock:     clk,
		log:       log,
		logger:    logger.Named("scheduler"),
	}
}

// Start runs one cycle immediately and then one per interval until Stop is
// called or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	s.done = make(chan struct{})
	s.exited = make(chan struct{})

	s.Refresh(ctx)

	ticker := s.clock.NewTicker(s.interval)
	go s.loop(ctx, ticker, s.done, s.exited)

	s.log.Append(fmt.Sprintf("Auto-refresh enabled (every %ds)", int(s.interval/time.Second)))
	s.logger.Info("auto-refresh started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the loop and waits for it to exit. A cycle already in flight
// completes; no cycle starts after Stop returns. Stopping a stopped
// scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	exited := s.exited
	s.mu.Unlock()

	<-exited
	s.log.Append(MsgRefreshPaused)
	s.logger.Info("auto-refresh stopped")
}

// Running reports whether the loop is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Interval returns the refresh period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) loop(ctx context.Context, ticker clock.Ticker, done, exited chan struct{}) {
	defer close(exited)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			s.mu.Lock()
			if s.done == done {
				s.running = false
			}
			s.mu.Unlock()
			s.logger.Info("auto-refresh ended with its context")
			return
		case <-ticker.C():
			select {
			case <-done:
				return
			default:
			}
			s.Refresh(ctx)
		}
	}
}

// Refresh runs a single cycle for the current patient. A cycle whose
// patient is replaced while it fetches leaves the display untouched.
func (s *Scheduler) Refresh(ctx context.Context) {
	gen := s.pipeline.Generation()
	id := s.patientID()
	s.logger.Debug("fetching patient vitals", zap.String("patient_id", id))

	reading, err := s.source.Fetch(ctx, id)
	if err != nil {
		s.pipeline.RefreshFailed(gen, id, err)
		return
	}
	// Classification failures are audited by the pipeline.
	_, _ = s.pipeline.Refreshed(gen, id, reading)
}
