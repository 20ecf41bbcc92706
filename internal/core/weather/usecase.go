package weather

import (
	"context"
	"fmt"
	"time"

	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

type UseCase struct {
	weatherProvider ports.WeatherProvider
	cache           ports.WeatherCache
	config          ports.ConfigProvider
	logger          ports.Logger
	metrics         ports.MetricsCollector
	now             func() time.Time
}

type UseCaseDependencies struct {
	WeatherProvider ports.WeatherProvider
	Cache           ports.WeatherCache
	Config          ports.ConfigProvider
	Logger          ports.Logger
	Metrics         ports.MetricsCollector
	// Clock defaults to time.Now
	Clock func() time.Time
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.WeatherProvider == nil {
		return nil, errors.NewValidationError("weather provider is required")
	}
	if deps.Cache == nil {
		return nil, errors.NewValidationError("cache is required")
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

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &UseCase{
		weatherProvider: deps.WeatherProvider,
		cache:           deps.Cache,
		config:          deps.Config,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		now:             clock,
	}, nil
}

// GetWeather returns current weather for a location, serving from cache while
// the stored snapshot is younger than the configured TTL.
func (uc *UseCase) GetWeather(ctx context.Context, request WeatherRequest) (*Weather, error) {
	if err := request.IsValid(); err != nil {
		return nil, errors.NewInvalidLocationError(err.Error())
	}

	request.NormalizeLocation()
	location := request.Location
	uc.logger.Debug("Getting weather for location", ports.F("location", location))

	weather, err := uc.getWeatherWithCache(ctx, location)
	if err != nil {
		uc.logger.Error("Failed to get weather",
			ports.F("location", location),
			ports.F("error", err))
		return nil, fmt.Errorf("get weather for location %s: %w", location, err)
	}

	uc.logger.Debug("Weather retrieved successfully",
		ports.F("location", location),
		ports.F("temperature", weather.Temperature))
	return weather, nil
}

func (uc *UseCase) getWeatherWithCache(ctx context.Context, location string) (*Weather, error) {
	cfg := uc.config.GetWeatherConfig()
	if !cfg.EnableCache {
		return uc.getWeatherFromProvider(ctx, location)
	}

	cacheKey := CacheKey(location)
	cached, err := uc.cache.Get(ctx, cacheKey)
	if err == nil && cached != nil {
		weather := fromPortsWeather(cached)
		if weather.IsFresh(uc.now(), cfg.CacheTTL) {
			uc.metrics.RecordCacheHit(ctx)
			uc.logger.Debug("Weather found in cache", ports.F("location", location))
			return weather, nil
		}
		uc.logger.Debug("Cached weather is stale", ports.F("location", location))
	} else if err != nil && !errors.IsNotFoundError(err) {
		uc.logger.Warn("Weather cache lookup failed",
			ports.F("location", location),
			ports.F("error", err))
	}
	uc.metrics.RecordCacheMiss(ctx)

	weather, err := uc.getWeatherFromProvider(ctx, location)
	if err != nil {
		return nil, err
	}

	if cacheErr := uc.cache.Set(ctx, cacheKey, toPortsWeather(weather), cfg.CacheTTL); cacheErr != nil {
		uc.logger.Warn("Failed to cache weather data",
			ports.F("location", location),
			ports.F("error", cacheErr))
	}

	return weather, nil
}

func (uc *UseCase) getWeatherFromProvider(ctx context.Context, location string) (*Weather, error) {
	providerWeather, err := uc.weatherProvider.GetCurrentWeather(ctx, location)
	if err != nil {
		return nil, err
	}

	weather := fromPortsWeather(providerWeather)
	if err := weather.IsValid(); err != nil {
		return nil, errors.NewMalformedResponseError("invalid weather data from provider: "+err.Error(), nil)
	}
	weather.FetchedAt = uc.now()

	return weather, nil
}

// CacheKey is the cache key for a location; lookups are exact and case-sensitive
func CacheKey(location string) string {
	return "weather:" + location
}

func toPortsWeather(weather *Weather) *ports.WeatherData {
	return &ports.WeatherData{
		City:        weather.City,
		Temperature: weather.Temperature,
		FeelsLike:   weather.FeelsLike,
		Description: weather.Description,
		Humidity:    weather.Humidity,
		WindSpeed:   weather.WindSpeed,
		FetchedAt:   weather.FetchedAt,
	}
}

func fromPortsWeather(data *ports.WeatherData) *Weather {
	return &Weather{
		City:        data.City,
		Temperature: data.Temperature,
		FeelsLike:   data.FeelsLike,
		Description: data.Description,
		Humidity:    data.Humidity,
		WindSpeed:   data.WindSpeed,
		FetchedAt:   data.FetchedAt,
	}
}
