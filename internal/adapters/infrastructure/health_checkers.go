package infrastructure

import (
	"context"
	"time"

	"weatherbot.app/internal/core/notification"
	"weatherbot.app/internal/ports"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Pinger is anything that can verify its backing connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHealthChecker reports a component healthy when Ping succeeds.
// It serves both the notification store and the Redis cache.
type PingHealthChecker struct {
	component string
	backend   string
	target    Pinger
}

func NewPingHealthChecker(component, backend string, target Pinger) *PingHealthChecker {
	return &PingHealthChecker{component: component, backend: backend, target: target}
}

func (p *PingHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: p.component,
		Details:   map[string]interface{}{"backend": p.backend},
	}

	if p.target == nil {
		status.Status = statusUnhealthy
		status.Error = p.component + " is not configured"
		return status
	}

	if err := p.target.Ping(ctx); err != nil {
		status.Status = statusUnhealthy
		status.Error = err.Error()
		return status
	}

	status.Status = statusHealthy
	status.Details["connected"] = true
	return status
}

// StaticHealthChecker always reports healthy; used for in-process backends like the memory cache
type StaticHealthChecker struct {
	component string
	details   map[string]interface{}
}

func NewStaticHealthChecker(component string, details map[string]interface{}) *StaticHealthChecker {
	return &StaticHealthChecker{component: component, details: details}
}

func (s *StaticHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	return ports.HealthStatus{
		Component: s.component,
		Status:    statusHealthy,
		Details:   s.details,
	}
}

// BreakerStateProvider exposes the weather provider's circuit breaker state
type BreakerStateProvider interface {
	BreakerState() string
	GetProviderName() string
}

// WeatherAPIHealthChecker reports the upstream as unhealthy while its breaker is open.
// It makes no request of its own.
type WeatherAPIHealthChecker struct {
	provider BreakerStateProvider
}

func NewWeatherAPIHealthChecker(provider BreakerStateProvider) *WeatherAPIHealthChecker {
	return &WeatherAPIHealthChecker{provider: provider}
}

func (w *WeatherAPIHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "weatherAPI",
		Details:   make(map[string]interface{}),
	}

	if w.provider == nil {
		status.Status = statusUnhealthy
		status.Error = "weather provider is not available"
		return status
	}

	state := w.provider.BreakerState()
	status.Details["provider"] = w.provider.GetProviderName()
	status.Details["breaker"] = state

	switch state {
	case "open":
		status.Status = statusUnhealthy
		status.Error = "circuit breaker is open"
	case "half-open":
		status.Status = statusDegraded
	default:
		status.Status = statusHealthy
	}
	return status
}

// SchedulerStatusProvider is the read side of the notification scheduler
type SchedulerStatusProvider interface {
	Status() notification.SchedulerStatus
}

// SchedulerHealthChecker fails when the loop is stopped or its last scan errored
type SchedulerHealthChecker struct {
	scheduler SchedulerStatusProvider
}

func NewSchedulerHealthChecker(scheduler SchedulerStatusProvider) *SchedulerHealthChecker {
	return &SchedulerHealthChecker{scheduler: scheduler}
}

func (s *SchedulerHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "scheduler",
		Details:   make(map[string]interface{}),
	}

	if s.scheduler == nil {
		status.Status = statusUnhealthy
		status.Error = "scheduler is not configured"
		return status
	}

	snapshot := s.scheduler.Status()
	status.Details["running"] = snapshot.Running
	if !snapshot.LastScan.IsZero() {
		status.Details["last_scan"] = snapshot.LastScan.Format(time.RFC3339)
		status.Details["last_matched"] = snapshot.LastReport.Matched
	}

	switch {
	case !snapshot.Running:
		status.Status = statusUnhealthy
		status.Error = "scheduler is not running"
	case snapshot.LastError != nil:
		status.Status = statusDegraded
		status.Error = snapshot.LastError.Error()
	default:
		status.Status = statusHealthy
	}
	return status
}
