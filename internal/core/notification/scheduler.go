package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// Dispatcher runs one scan over the stored schedules
type Dispatcher interface {
	DispatchDue(ctx context.Context, now time.Time) (DispatchReport, error)
}

// Scheduler polls the store on a fixed interval and dispatches due notifications.
//
// Matching is a string comparison of the minute sampled once per poll, so with a
// 30s interval a schedule fires once or twice in its minute, and can be missed
// entirely if a scan is delayed past it. Delivery is not deduplicated.
type Scheduler struct {
	dispatcher   Dispatcher
	pollInterval time.Duration
	errorBackoff time.Duration
	logger       ports.Logger
	metrics      ports.MetricsCollector
	now          func() time.Time

	mu         sync.RWMutex
	running    bool
	lastScan   time.Time
	lastReport DispatchReport
	lastErr    error
}

type SchedulerDependencies struct {
	Dispatcher Dispatcher
	Config     ports.ConfigProvider
	Logger     ports.Logger
	Metrics    ports.MetricsCollector
	// Clock defaults to time.Now; schedules are compared in its local wall time
	Clock func() time.Time
}

// SchedulerStatus is a snapshot of the scheduler state for health reporting
type SchedulerStatus struct {
	Running    bool
	LastScan   time.Time
	LastReport DispatchReport
	LastError  error
}

func NewScheduler(deps SchedulerDependencies) (*Scheduler, error) {
	if deps.Dispatcher == nil {
		return nil, errors.NewValidationError("dispatcher is required")
	}
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics is required")
	}

	cfg := deps.Config.GetSchedulerConfig()
	if cfg.PollInterval <= 0 {
		return nil, errors.NewValidationError("poll interval must be positive")
	}
	if cfg.ErrorBackoff <= 0 {
		return nil, errors.NewValidationError("error backoff must be positive")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Scheduler{
		dispatcher:   deps.Dispatcher,
		pollInterval: cfg.PollInterval,
		errorBackoff: cfg.ErrorBackoff,
		logger:       deps.Logger,
		metrics:      deps.Metrics,
		now:          clock,
	}, nil
}

// Run scans until ctx is cancelled. Scan failures never stop the loop.
func (s *Scheduler) Run(ctx context.Context) {
	s.setRunning(true)
	defer s.setRunning(false)

	s.logger.Info("Notification scheduler started",
		ports.F("poll_interval", s.pollInterval.String()),
		ports.F("error_backoff", s.errorBackoff.String()))

	for {
		wait := s.scan(ctx)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Notification scheduler stopped")
			return
		case <-timer.C:
		}
	}
}

// scan runs one supervised dispatch and returns how long to sleep before the next
func (s *Scheduler) scan(ctx context.Context) (wait time.Duration) {
	start := time.Now()
	now := s.now()

	defer func() {
		if r := recover(); r != nil {
			s.recordFailure(ctx, now, fmt.Errorf("scan panicked: %v", r))
			wait = s.errorBackoff
		}
	}()

	report, err := s.dispatcher.DispatchDue(ctx, now)
	if err != nil {
		s.recordFailure(ctx, now, err)
		return s.errorBackoff
	}

	s.metrics.RecordScan(ctx, report.Matched, time.Since(start))
	if report.Matched > 0 {
		s.logger.Info("Notification scan completed",
			ports.F("scan_id", report.ScanID),
			ports.F("minute", report.Minute),
			ports.F("scanned", report.Scanned),
			ports.F("matched", report.Matched),
			ports.F("sent", report.Sent),
			ports.F("failed", report.Failed),
			ports.F("skipped", report.Skipped))
	}

	s.mu.Lock()
	s.lastScan = now
	s.lastReport = report
	s.lastErr = nil
	s.mu.Unlock()

	return s.pollInterval
}

func (s *Scheduler) recordFailure(ctx context.Context, now time.Time, err error) {
	s.logger.Error("Notification scan failed, backing off",
		ports.F("error", err),
		ports.F("backoff", s.errorBackoff.String()))
	s.metrics.RecordSchedulerBackoff(ctx)

	s.mu.Lock()
	s.lastScan = now
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Scheduler) setRunning(running bool) {
	s.mu.Lock()
	s.running = running
	s.mu.Unlock()
}

// Status returns the latest scan state
func (s *Scheduler) Status() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SchedulerStatus{
		Running:    s.running,
		LastScan:   s.lastScan,
		LastReport: s.lastReport,
		LastError:  s.lastErr,
	}
}
