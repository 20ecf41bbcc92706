package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
	"weatherbot.app/internal/adapters/api"
	"weatherbot.app/internal/adapters/infrastructure"
	"weatherbot.app/internal/adapters/telegram"
	"weatherbot.app/internal/config"
	"weatherbot.app/internal/core/notification"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/ports"
)

var errUpdatesClosed = errors.New("telegram updates channel closed")

type Application struct {
	config *config.Config
	deps   *DependencyContainer
	ports  *ports.ApplicationPorts

	// Use Cases
	weatherUseCase      *weather.UseCase
	notificationUseCase *notification.UseCase
	scheduler           *notification.Scheduler

	// Adapters
	bot        telegram.BotAPI
	router     *telegram.Router
	httpServer *api.HTTPServerAdapter
}

// NewApplication connects to Telegram and builds every component from cfg
func NewApplication(cfg *config.Config, log ports.Logger) (*Application, error) {
	bot, err := telegram.NewBotAPI(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	slog.Info("Authorized on Telegram", "account", bot.Self.UserName)

	deps, err := NewDependencyContainer(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	app, err := NewApplicationWithDependencies(cfg, deps, bot, bot.Self.UserName)
	if err != nil {
		_ = deps.Cleanup()
		return nil, err
	}
	return app, nil
}

// NewApplicationWithDependencies wires use cases and adapters over an existing container and bot
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer, bot telegram.BotAPI, botUsername string) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
		bot:    bot,
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(botUsername); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	weatherUseCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		WeatherProvider: a.ports.WeatherProvider,
		Cache:           a.ports.WeatherCache,
		Config:          a.ports.ConfigProvider,
		Logger:          a.ports.Logger,
		Metrics:         a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create weather use case: %w", err)
	}
	a.weatherUseCase = weatherUseCase

	notificationUseCase, err := notification.NewUseCase(notification.UseCaseDependencies{
		Store:     a.ports.NotificationStore,
		Weather:   a.weatherUseCase,
		Messenger: telegram.NewMessenger(a.bot),
		Config:    a.ports.ConfigProvider,
		Logger:    a.ports.Logger,
		Metrics:   a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create notification use case: %w", err)
	}
	a.notificationUseCase = notificationUseCase

	scheduler, err := notification.NewScheduler(notification.SchedulerDependencies{
		Dispatcher: a.notificationUseCase,
		Config:     a.ports.ConfigProvider,
		Logger:     a.ports.Logger,
		Metrics:    a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	a.scheduler = scheduler

	slog.Info("Use cases initialized successfully")
	return nil
}

func (a *Application) initializeAdapters(botUsername string) error {
	slog.Info("Initializing adapters...")

	a.router = telegram.NewRouter(telegram.RouterDependencies{
		Bot:           a.bot,
		BotUsername:   botUsername,
		Weather:       a.weatherUseCase,
		Notifications: a.notificationUseCase,
		Logger:        a.ports.Logger,
	})

	checkers := a.deps.HealthCheckers()
	if a.config.Scheduler.Enabled {
		checkers = append(checkers, infrastructure.NewSchedulerHealthChecker(a.scheduler))
	}
	healthChecker := infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
		Checkers:       checkers,
		ConfigProvider: a.ports.ConfigProvider,
	})

	httpServer, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config:              api.ServerConfig{Host: a.config.Server.Host, Port: a.config.Server.Port},
		WeatherUseCase:      a.weatherUseCase,
		NotificationUseCase: a.notificationUseCase,
		HealthChecker:       healthChecker,
		MetricsHandler:      a.deps.MetricsCollector().Handler(),
		Logger:              a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}
	a.httpServer = httpServer

	slog.Info("Adapters initialized successfully")
	return nil
}

// Run starts the scheduler, the ops server and the update loop, and blocks until ctx
// is cancelled or the update loop fails. An ops server failure is logged and leaves
// the bot running.
func (a *Application) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	if a.config.Scheduler.Enabled {
		group.Go(func() error {
			a.scheduler.Run(ctx)
			return nil
		})
	} else {
		slog.Info("Notification scheduler disabled")
	}

	if a.config.Server.Enabled {
		group.Go(func() error {
			if err := a.httpServer.Start(ctx); err != nil {
				a.ports.Logger.Error("Ops HTTP server stopped", ports.F("error", err))
			}
			return nil
		})
	}

	group.Go(func() error {
		updateConfig := tgbotapi.NewUpdate(0)
		updateConfig.Timeout = a.config.Telegram.UpdatesTimeout

		updates := a.bot.GetUpdatesChan(updateConfig)
		a.router.Run(ctx, updates)
		a.bot.StopReceivingUpdates()
		if ctx.Err() == nil {
			return errUpdatesClosed
		}
		return nil
	})

	return group.Wait()
}

// Shutdown releases the store and cache connections
func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if err := a.deps.Cleanup(); err != nil {
		return fmt.Errorf("cleanup dependencies: %w", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Telegram router for testing
func (a *Application) GetRouter() *telegram.Router {
	return a.router
}

// GetHTTPServer returns the ops HTTP adapter for testing
func (a *Application) GetHTTPServer() *api.HTTPServerAdapter {
	return a.httpServer
}

func (a *Application) GetWeatherUseCase() *weather.UseCase {
	return a.weatherUseCase
}

func (a *Application) GetNotificationUseCase() *notification.UseCase {
	return a.notificationUseCase
}

func (a *Application) GetScheduler() *notification.Scheduler {
	return a.scheduler
}
