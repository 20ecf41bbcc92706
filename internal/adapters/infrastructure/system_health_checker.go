package infrastructure

import (
	"context"

	"weatherbot.app/internal/ports"
)

// SystemHealthChecker aggregates component checks keyed by component name
type SystemHealthChecker struct {
	checkers       []ports.HealthChecker
	configProvider ports.ConfigProvider
}

type SystemHealthCheckerConfig struct {
	Checkers       []ports.HealthChecker
	ConfigProvider ports.ConfigProvider
}

func NewSystemHealthChecker(config SystemHealthCheckerConfig) *SystemHealthChecker {
	return &SystemHealthChecker{
		checkers:       config.Checkers,
		configProvider: config.ConfigProvider,
	}
}

// CheckAll runs every registered check; nil checkers are skipped
func (s *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	results := make(map[string]ports.HealthStatus, len(s.checkers)+1)

	for _, checker := range s.checkers {
		if checker == nil {
			continue
		}
		status := checker.Check(ctx)
		results[status.Component] = status
	}

	if s.configProvider != nil {
		storage := s.configProvider.GetStorageConfig()
		cache := s.configProvider.GetCacheConfig()
		results["config"] = ports.HealthStatus{
			Component: "config",
			Status:    statusHealthy,
			Details: map[string]interface{}{
				"storage": storage.Type,
				"cache":   cache.Type,
			},
		}
	}

	return results
}
