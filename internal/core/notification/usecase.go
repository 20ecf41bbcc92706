package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// Notification outcomes reported to metrics
const (
	OutcomeSent        = "sent"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeSendFailed  = "send_failed"
	OutcomeSkipped     = "skipped"
)

// WeatherFetcher is the slice of the weather use case the scheduler needs
type WeatherFetcher interface {
	GetWeather(ctx context.Context, request weather.WeatherRequest) (*weather.Weather, error)
}

type UseCase struct {
	store     ports.NotificationStore
	weather   WeatherFetcher
	messenger ports.Messenger
	config    ports.ConfigProvider
	logger    ports.Logger
	metrics   ports.MetricsCollector
}

type UseCaseDependencies struct {
	Store     ports.NotificationStore
	Weather   WeatherFetcher
	Messenger ports.Messenger
	Config    ports.ConfigProvider
	Logger    ports.Logger
	Metrics   ports.MetricsCollector
}

// DispatchReport summarizes one scan
type DispatchReport struct {
	ScanID  string
	Minute  string
	Scanned int
	Matched int
	Sent    int
	Failed  int
	Skipped int
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Store == nil {
		return nil, errors.NewValidationError("notification store is required")
	}
	if deps.Weather == nil {
		return nil, errors.NewValidationError("weather use case is required")
	}
	if deps.Messenger == nil {
		return nil, errors.NewValidationError("messenger is required")
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

	return &UseCase{
		store:     deps.Store,
		weather:   deps.Weather,
		messenger: deps.Messenger,
		config:    deps.Config,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}, nil
}

// SetSchedule parses "City HH:MM" and replaces the chat's schedule with it
func (uc *UseCase) SetSchedule(ctx context.Context, chatID int64, text string) (*Schedule, error) {
	req, err := ParseScheduleRequest(text)
	if err != nil {
		return nil, err
	}

	if err := uc.store.Save(ctx, chatID, req.City, req.Time); err != nil {
		uc.logger.Error("Failed to save notification",
			ports.F("chat_id", chatID),
			ports.F("error", err))
		return nil, fmt.Errorf("save schedule for chat %d: %w", chatID, err)
	}

	uc.logger.Info("Notification saved",
		ports.F("chat_id", chatID),
		ports.F("city", req.City),
		ports.F("time", req.Time))

	return &Schedule{ChatID: chatID, City: req.City, Time: req.Time}, nil
}

// GetSchedule returns the chat's schedule or a NotFound error
func (uc *UseCase) GetSchedule(ctx context.Context, chatID int64) (*Schedule, error) {
	data, err := uc.store.Get(ctx, chatID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Error("Failed to read notification",
				ports.F("chat_id", chatID),
				ports.F("error", err))
		}
		return nil, fmt.Errorf("get schedule for chat %d: %w", chatID, err)
	}
	return scheduleFromData(chatID, data), nil
}

// DeleteSchedule removes the chat's schedule and reports whether one existed
func (uc *UseCase) DeleteSchedule(ctx context.Context, chatID int64) (bool, error) {
	deleted, err := uc.store.Delete(ctx, chatID)
	if err != nil {
		uc.logger.Error("Failed to delete notification",
			ports.F("chat_id", chatID),
			ports.F("error", err))
		return false, fmt.Errorf("delete schedule for chat %d: %w", chatID, err)
	}
	if deleted {
		uc.logger.Info("Notification deleted", ports.F("chat_id", chatID))
	}
	return deleted, nil
}

// DispatchDue delivers weather to every schedule whose time equals the minute of now.
// Only a store read failure is returned; per-entry failures are logged and counted.
func (uc *UseCase) DispatchDue(ctx context.Context, now time.Time) (DispatchReport, error) {
	report := DispatchReport{
		ScanID: uuid.NewString(),
		Minute: MinuteKey(now),
	}

	schedules, err := uc.store.GetAll(ctx)
	if err != nil {
		return report, fmt.Errorf("read schedules: %w", err)
	}
	report.Scanned = len(schedules)

	keys := make([]string, 0, len(schedules))
	for key := range schedules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	title := uc.config.GetSchedulerConfig().NotificationTitle
	if title == "" {
		title = weather.DefaultTitle
	}

	for _, key := range keys {
		data := schedules[key]
		if data.City == "" || data.Time == "" || data.Time != report.Minute {
			continue
		}
		report.Matched++

		switch outcome := uc.dispatchOne(ctx, report.ScanID, key, data, title); outcome {
		case OutcomeSent:
			report.Sent++
		case OutcomeSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	return report, nil
}

// dispatchOne handles a single due entry. A panic is contained to the entry.
func (uc *UseCase) dispatchOne(ctx context.Context, scanID, key string, data ports.ScheduleData, title string) (outcome string) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Notification processing panicked",
				ports.F("scan_id", scanID),
				ports.F("chat_id", key),
				ports.F("panic", fmt.Sprint(r)))
			outcome = OutcomeSendFailed
		}
		uc.metrics.RecordNotification(ctx, outcome)
	}()

	chatID, err := parseChatID(key)
	if err != nil {
		uc.logger.Warn("Skipping notification with invalid chat id",
			ports.F("scan_id", scanID),
			ports.F("chat_id", key))
		return OutcomeSkipped
	}

	w, err := uc.weather.GetWeather(ctx, weather.WeatherRequest{Location: data.City})
	if err != nil {
		uc.logger.Error("Failed to fetch weather for notification",
			ports.F("scan_id", scanID),
			ports.F("chat_id", chatID),
			ports.F("city", data.City),
			ports.F("error", err))
		return OutcomeFetchFailed
	}

	if err := uc.messenger.Send(ctx, chatID, weather.FormatMessage(w, title)); err != nil {
		uc.logger.Error("Failed to send notification",
			ports.F("scan_id", scanID),
			ports.F("chat_id", chatID),
			ports.F("error", err))
		return OutcomeSendFailed
	}

	uc.logger.Info("Notification sent",
		ports.F("scan_id", scanID),
		ports.F("chat_id", chatID),
		ports.F("city", data.City))
	return OutcomeSent
}
