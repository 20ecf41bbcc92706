package external

import (
	"context"
	"time"

	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// WeatherProviderLoggingDecorator logs every upstream call and records its outcome
type WeatherProviderLoggingDecorator struct {
	provider ports.WeatherProvider
	logger   ports.Logger
	metrics  ports.MetricsCollector
}

// NewWeatherProviderLoggingDecorator wraps provider; metrics may be nil
func NewWeatherProviderLoggingDecorator(provider ports.WeatherProvider, logger ports.Logger, metrics ports.MetricsCollector) *WeatherProviderLoggingDecorator {
	return &WeatherProviderLoggingDecorator{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

func (d *WeatherProviderLoggingDecorator) GetCurrentWeather(ctx context.Context, city string) (*ports.WeatherData, error) {
	providerName := d.provider.GetProviderName()

	d.logger.Debug("Weather API request started",
		ports.F("provider", providerName),
		ports.F("city", city),
		ports.F("event", "request"))

	start := time.Now()
	weatherData, err := d.provider.GetCurrentWeather(ctx, city)
	duration := time.Since(start)

	if err != nil {
		outcome := callOutcome(err)
		d.record(ctx, providerName, outcome)

		log := d.logger.Error
		if outcome == "not_found" {
			log = d.logger.Info
		}
		log("Weather API request failed",
			ports.F("provider", providerName),
			ports.F("city", city),
			ports.F("event", "error"),
			ports.F("outcome", outcome),
			ports.F("duration_ms", duration.Milliseconds()),
			ports.F("error", err.Error()))
		return nil, err
	}

	d.record(ctx, providerName, "success")
	d.logger.Info("Weather API request completed",
		ports.F("provider", providerName),
		ports.F("city", city),
		ports.F("event", "response"),
		ports.F("duration_ms", duration.Milliseconds()),
		ports.F("temperature", weatherData.Temperature),
		ports.F("humidity", weatherData.Humidity),
		ports.F("description", weatherData.Description))

	return weatherData, nil
}

func (d *WeatherProviderLoggingDecorator) GetProviderName() string {
	return d.provider.GetProviderName()
}

func (d *WeatherProviderLoggingDecorator) record(ctx context.Context, provider, outcome string) {
	if d.metrics != nil {
		d.metrics.RecordWeatherAPICall(ctx, provider, outcome)
	}
}

func callOutcome(err error) string {
	switch errors.TypeOf(err) {
	case errors.LocationNotFoundError:
		return "not_found"
	case errors.ConnectionError:
		return "connection_error"
	case errors.MalformedResponseError:
		return "malformed"
	default:
		return "provider_error"
	}
}
