package external

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

const (
	defaultOpenWeatherMapBaseURL = "http://api.openweathermap.org/data/2.5"
	defaultRequestTimeout        = 10 * time.Second
	defaultBreakerFailures       = 5
	defaultBreakerTimeout        = 30 * time.Second
)

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenWeatherMapProviderAdapter implements WeatherProvider port for OpenWeatherMap
type OpenWeatherMapProviderAdapter struct {
	apiKey  string
	baseURL string
	lang    string
	client  HTTPClient
	breaker *gobreaker.CircuitBreaker
	logger  ports.Logger
}

// OpenWeatherMapProviderParams holds parameters for creating OpenWeatherMap provider
type OpenWeatherMapProviderParams struct {
	APIKey          string
	BaseURL         string
	Lang            string
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	Logger          ports.Logger
	// Client overrides the default http.Client built from Timeout
	Client HTTPClient
}

// openWeatherMapResponse mirrors the fields read from /weather.
// Pointers distinguish a missing field from a zero value.
type openWeatherMapResponse struct {
	Name *string `json:"name"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

type openWeatherMapError struct {
	Message string `json:"message"`
}

// upstreamStatusError is returned inside the breaker for responses that count as failures
type upstreamStatusError struct {
	status int
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.status)
}

type apiResult struct {
	status int
	body   []byte
}

// NewOpenWeatherMapProviderAdapter creates a new OpenWeatherMap provider adapter
func NewOpenWeatherMapProviderAdapter(params OpenWeatherMapProviderParams) *OpenWeatherMapProviderAdapter {
	baseURL := strings.TrimRight(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenWeatherMapBaseURL
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	failures := params.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	breakerTimeout := params.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = defaultBreakerTimeout
	}

	client := params.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	p := &OpenWeatherMapProviderAdapter{
		apiKey:  params.APIKey,
		baseURL: baseURL,
		lang:    params.Lang,
		client:  client,
		logger:  params.Logger,
	}

	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if p.logger != nil {
				p.logger.Warn("Circuit breaker state changed",
					ports.F("breaker", name),
					ports.F("from", from.String()),
					ports.F("to", to.String()))
			}
		},
	})

	return p
}

// GetCurrentWeather retrieves current conditions for a city from OpenWeatherMap
func (p *OpenWeatherMapProviderAdapter) GetCurrentWeather(ctx context.Context, city string) (*ports.WeatherData, error) {
	if strings.TrimSpace(city) == "" {
		return nil, errors.NewInvalidLocationError("city cannot be empty")
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.doRequest(ctx, city)
	})
	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.NewConnectionError("weather service temporarily unavailable", err)
		}
		var statusErr *upstreamStatusError
		if stderrors.As(err, &statusErr) {
			return nil, errors.NewProviderError(fmt.Sprintf("status %d", statusErr.status), err)
		}
		return nil, transportError(err)
	}

	res := result.(*apiResult)
	switch {
	case res.status == http.StatusNotFound:
		return nil, errors.NewLocationNotFoundError(fmt.Sprintf("city %q not found", city))
	case res.status != http.StatusOK:
		return nil, errors.NewProviderError(apiErrorMessage(res), nil)
	}

	return parseOpenWeatherMapResponse(res.body)
}

// doRequest performs one HTTP round trip; transport errors and 5xx count against the breaker
func (p *OpenWeatherMapProviderAdapter) doRequest(ctx context.Context, city string) (*apiResult, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	if p.lang != "" {
		values.Set("lang", p.lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/weather?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && p.logger != nil {
			p.logger.Warn("Failed to close OpenWeatherMap response body", ports.F("error", closeErr))
		}
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &upstreamStatusError{status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &apiResult{status: resp.StatusCode, body: body}, nil
}

// GetProviderName returns the name of this weather provider
func (p *OpenWeatherMapProviderAdapter) GetProviderName() string {
	return "openweathermap"
}

// BreakerState reports the circuit breaker state for health checks
func (p *OpenWeatherMapProviderAdapter) BreakerState() string {
	return p.breaker.State().String()
}

func parseOpenWeatherMapResponse(body []byte) (*ports.WeatherData, error) {
	var payload openWeatherMapResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewMalformedResponseError("failed to decode OpenWeatherMap response", err)
	}

	if payload.Name == nil || payload.Main == nil || payload.Wind == nil ||
		payload.Main.Temp == nil || payload.Main.FeelsLike == nil || payload.Main.Humidity == nil ||
		payload.Wind.Speed == nil || len(payload.Weather) == 0 {
		return nil, errors.NewMalformedResponseError("OpenWeatherMap response is missing required fields", nil)
	}

	return &ports.WeatherData{
		City:        *payload.Name,
		Temperature: weather.RoundTemperature(*payload.Main.Temp),
		FeelsLike:   weather.RoundTemperature(*payload.Main.FeelsLike),
		Description: payload.Weather[0].Description,
		Humidity:    int(*payload.Main.Humidity),
		WindSpeed:   weather.RoundWind(*payload.Wind.Speed),
	}, nil
}

func apiErrorMessage(res *apiResult) string {
	var apiErr openWeatherMapError
	if err := json.Unmarshal(res.body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf("status %d", res.status)
}

// transportError maps a failed round trip to a ConnectionError. The request URL
// carries the API key, so neither the message nor the cause may include it.
func transportError(err error) error {
	message := "request failed"
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		if urlErr.Timeout() {
			message = "request timed out"
		}
		redacted := *urlErr
		redacted.URL = redactQuery(urlErr.URL)
		err = &redacted
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		message = "request timed out"
	}
	return errors.NewConnectionError(message, err)
}

func redactQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<redacted>"
	}
	u.RawQuery = ""
	return u.String()
}
