package app

import (
	"fmt"
	"log/slog"

	"go.uber.org/multierr"
	"weatherbot.app/internal/adapters/database"
	"weatherbot.app/internal/adapters/external"
	"weatherbot.app/internal/adapters/infrastructure"
	"weatherbot.app/internal/config"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/logger"
)

// DependencyContainer owns the adapters behind the ports and their lifecycles
type DependencyContainer struct {
	config  *config.Config
	ports   *ports.ApplicationPorts
	metrics *infrastructure.PrometheusMetricsCollector

	weatherAPI *external.OpenWeatherMapProviderAdapter
	checkers   []ports.HealthChecker
	closers    []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// NewLogger builds the logger selected by LOG_BACKEND. The returned close func flushes it.
func NewLogger(cfg config.LoggingConfig) (ports.Logger, func() error, error) {
	switch cfg.Backend {
	case "zap":
		zapLogger, err := infrastructure.NewZapLoggerAdapter(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("create zap logger: %w", err)
		}
		return zapLogger, func() error {
			_ = zapLogger.Sync()
			return nil
		}, nil
	case "file":
		fileLogger, err := infrastructure.NewFileLoggerAdapter(cfg.FilePath, cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("create file logger: %w", err)
		}
		return fileLogger, fileLogger.Close, nil
	default:
		l := logger.New(cfg.Level)
		l.SetDefault()
		return infrastructure.NewSlogLoggerAdapter(l.Logger), func() error { return nil }, nil
	}
}

// NewDependencyContainer connects storage and cache and builds the weather provider chain
func NewDependencyContainer(cfg *config.Config, log ports.Logger) (*DependencyContainer, error) {
	c := &DependencyContainer{
		config:  cfg,
		metrics: infrastructure.NewPrometheusMetricsCollector(),
	}

	if err := c.initializePorts(log); err != nil {
		_ = c.Cleanup()
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return c, nil
}

func (c *DependencyContainer) initializePorts(log ports.Logger) error {
	slog.Info("Initializing ports...")

	store, err := database.NewNotificationStore(&c.config.Storage)
	if err != nil {
		return fmt.Errorf("create notification store: %w", err)
	}
	c.closers = append(c.closers, namedCloser{name: "notification store", close: store.Close})
	if pinger, ok := store.(infrastructure.Pinger); ok {
		c.checkers = append(c.checkers,
			infrastructure.NewPingHealthChecker("store", c.config.Storage.Type.String(), pinger))
	}
	log.Info("Notification store initialized", ports.F("type", c.config.Storage.Type.String()))

	cache, err := external.NewCacheBackend(&c.config.Cache)
	if err != nil {
		return fmt.Errorf("create cache backend: %w", err)
	}
	if cache.Redis != nil {
		c.closers = append(c.closers, namedCloser{name: "redis cache", close: cache.Close})
		c.checkers = append(c.checkers, infrastructure.NewPingHealthChecker("cache", cache.Name(), cache.Redis))
	} else {
		c.checkers = append(c.checkers,
			infrastructure.NewStaticHealthChecker("cache", map[string]interface{}{"backend": cache.Name()}))
	}
	log.Info("Cache backend initialized",
		ports.F("type", cache.Name()),
		ports.F("redis_addr", c.config.Cache.Redis.Addr))

	c.weatherAPI = external.NewOpenWeatherMapProviderAdapter(external.OpenWeatherMapProviderParams{
		APIKey:          c.config.Weather.APIKey,
		BaseURL:         c.config.Weather.BaseURL,
		Lang:            c.config.Weather.Language,
		Timeout:         c.config.Weather.RequestTimeout,
		BreakerFailures: c.config.Weather.BreakerFailures,
		BreakerTimeout:  c.config.Weather.BreakerTimeout,
		Logger:          log,
	})
	c.checkers = append(c.checkers, infrastructure.NewWeatherAPIHealthChecker(c.weatherAPI))

	var provider ports.WeatherProvider = c.weatherAPI
	if c.config.Weather.EnableLogging {
		provider = external.NewWeatherProviderLoggingDecorator(provider, log, c.metrics)
	}

	c.ports = &ports.ApplicationPorts{
		WeatherProvider:   provider,
		WeatherCache:      cache.WeatherCache(),
		NotificationStore: store,
		CacheProvider:     cache.Provider,
		CacheMetrics:      cache.Stats,
		ConfigProvider:    infrastructure.NewConfigProviderAdapter(c.config),
		Logger:            log,
		Metrics:           c.metrics,
	}

	slog.Info("Ports initialized successfully")
	return nil
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// MetricsCollector returns the Prometheus-backed collector shared by every component
func (c *DependencyContainer) MetricsCollector() *infrastructure.PrometheusMetricsCollector {
	return c.metrics
}

// HealthCheckers returns the adapter-level checks: store, cache and weather API
func (c *DependencyContainer) HealthCheckers() []ports.HealthChecker {
	return append([]ports.HealthChecker(nil), c.checkers...)
}

// Cleanup closes resources in reverse order of creation and reports every failure
func (c *DependencyContainer) Cleanup() error {
	var errs error
	for i := len(c.closers) - 1; i >= 0; i-- {
		closer := c.closers[i]
		if err := closer.close(); err != nil {
			slog.Warn("Error closing resource", "resource", closer.name, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("close %s: %w", closer.name, err))
		}
	}
	c.closers = nil
	return errs
}
