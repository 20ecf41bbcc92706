// Package api serves the operational HTTP surface: health, metrics and read-only debug lookups
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"weatherbot.app/internal/core/notification"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the listen address; an empty host listens on all interfaces
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// HTTPServerAdapter implements the ops HTTP server using Gin
type HTTPServerAdapter struct {
	router              *gin.Engine
	config              ServerConfig
	weatherUseCase      WeatherUseCase
	notificationUseCase NotificationUseCase
	healthChecker       ports.SystemHealthChecker
	metricsHandler      http.Handler
	logger              ports.Logger
}

type WeatherUseCase interface {
	GetWeather(ctx context.Context, request weather.WeatherRequest) (*weather.Weather, error)
}

type NotificationUseCase interface {
	GetSchedule(ctx context.Context, chatID int64) (*notification.Schedule, error)
}

type ServerOptions struct {
	Config              ServerConfig
	WeatherUseCase      WeatherUseCase
	NotificationUseCase NotificationUseCase
	HealthChecker       ports.SystemHealthChecker
	// MetricsHandler serves /metrics, usually promhttp over the app registry
	MetricsHandler http.Handler
	Logger         ports.Logger
}

func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &HTTPServerAdapter{
		router:              router,
		config:              opts.Config,
		weatherUseCase:      opts.WeatherUseCase,
		notificationUseCase: opts.NotificationUseCase,
		healthChecker:       opts.HealthChecker,
		metricsHandler:      opts.MetricsHandler,
		logger:              opts.Logger,
	}
	router.Use(server.requestLogger())

	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.WeatherUseCase == nil {
		return errors.NewValidationError("weather use case is required")
	}
	if opts.NotificationUseCase == nil {
		return errors.NewValidationError("notification use case is required")
	}
	if opts.HealthChecker == nil {
		return errors.NewValidationError("health checker is required")
	}
	if opts.MetricsHandler == nil {
		return errors.NewValidationError("metrics handler is required")
	}
	if opts.Logger == nil {
		return errors.NewValidationError("logger is required")
	}
	return nil
}

func (s *HTTPServerAdapter) setupRoutes() {
	s.router.GET("/healthz", s.getHealth)
	s.router.GET("/metrics", gin.WrapH(s.metricsHandler))

	api := s.router.Group("/api")
	{
		api.GET("/weather", s.getWeather)
		api.GET("/notifications/:chat_id", s.getNotification)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *HTTPServerAdapter) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", ports.F("addr", s.config.Addr()))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}

func (s *HTTPServerAdapter) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			ports.F("method", c.Request.Method),
			ports.F("path", c.FullPath()),
			ports.F("status", c.Writer.Status()),
			ports.F("duration_ms", time.Since(start).Milliseconds()))
	}
}
