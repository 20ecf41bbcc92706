package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherbot.app/internal/mocks"
	"weatherbot.app/pkg/errors"
)

const moscowResponse = `{
	"name": "Москва",
	"main": {"temp": 12.5, "feels_like": 10.4, "humidity": 81},
	"weather": [{"description": "пасмурно"}],
	"wind": {"speed": 4.25}
}`

func newTestProvider(t *testing.T, baseURL string) *OpenWeatherMapProviderAdapter {
	t.Helper()
	return NewOpenWeatherMapProviderAdapter(OpenWeatherMapProviderParams{
		APIKey:          "test-api-key",
		BaseURL:         baseURL,
		Lang:            "ru",
		Timeout:         2 * time.Second,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
		Logger:          mocks.NewPermissiveLogger(t),
	})
}

func TestOpenWeatherMapProvider_GetCurrentWeather_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "Москва", query.Get("q"))
		assert.Equal(t, "test-api-key", query.Get("appid"))
		assert.Equal(t, "metric", query.Get("units"))
		assert.Equal(t, "ru", query.Get("lang"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(moscowResponse))
		assert.NoError(t, err)
	}))
	defer server.Close()

	data, err := newTestProvider(t, server.URL).GetCurrentWeather(context.Background(), "Москва")

	require.NoError(t, err)
	assert.Equal(t, "Москва", data.City)
	assert.Equal(t, 12, data.Temperature)
	assert.Equal(t, 10, data.FeelsLike)
	assert.Equal(t, 81, data.Humidity)
	assert.Equal(t, "пасмурно", data.Description)
	assert.InDelta(t, 4.2, data.WindSpeed, 1e-9)
}

func TestOpenWeatherMapProvider_GetCurrentWeather_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errType errors.ErrorType
		message string
	}{
		{name: "NotFound", status: http.StatusNotFound, body: `{"cod":"404","message":"city not found"}`, errType: errors.LocationNotFoundError},
		{name: "Unauthorized", status: http.StatusUnauthorized, body: `{"cod":401,"message":"Invalid API key"}`, errType: errors.ProviderError, message: "Invalid API key"},
		{name: "RateLimitedWithoutBody", status: http.StatusTooManyRequests, body: ``, errType: errors.ProviderError, message: "status 429"},
		{name: "ServerError", status: http.StatusBadGateway, body: `bad gateway`, errType: errors.ProviderError},
		{name: "InvalidJSON", status: http.StatusOK, body: `{not json`, errType: errors.MalformedResponseError},
		{name: "MissingMain", status: http.StatusOK, body: `{"name":"X","weather":[{"description":"d"}],"wind":{"speed":1}}`, errType: errors.MalformedResponseError},
		{name: "MissingFeelsLike", status: http.StatusOK, body: `{"name":"X","main":{"temp":1,"humidity":2},"weather":[{"description":"d"}],"wind":{"speed":1}}`, errType: errors.MalformedResponseError},
		{name: "EmptyWeatherList", status: http.StatusOK, body: `{"name":"X","main":{"temp":1,"feels_like":1,"humidity":2},"weather":[],"wind":{"speed":1}}`, errType: errors.MalformedResponseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			data, err := newTestProvider(t, server.URL).GetCurrentWeather(context.Background(), "Atlantis")

			assert.Nil(t, data)
			require.Error(t, err)
			assert.Equal(t, tt.errType, errors.TypeOf(err))
			if tt.message != "" {
				var appErr *errors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.message, appErr.Message)
			}
		})
	}
}

func TestOpenWeatherMapProvider_GetCurrentWeather_EmptyCity(t *testing.T) {
	_, err := newTestProvider(t, "http://127.0.0.1:0").GetCurrentWeather(context.Background(), "  ")
	assert.True(t, errors.IsInvalidLocationError(err))
}

func TestOpenWeatherMapProvider_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	_, err := newTestProvider(t, baseURL).GetCurrentWeather(context.Background(), "London")

	assert.True(t, errors.IsConnectionError(err))
}

func TestOpenWeatherMapProvider_TransportErrorHidesAPIKey(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	provider := NewOpenWeatherMapProviderAdapter(OpenWeatherMapProviderParams{
		APIKey:          "SECRETKEY123",
		BaseURL:         server.URL,
		Timeout:         50 * time.Millisecond,
		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
		Logger:          mocks.NewPermissiveLogger(t),
	})

	_, err := provider.GetCurrentWeather(context.Background(), "Moscow")

	require.True(t, errors.IsConnectionError(err))
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "request timed out", appErr.Message)
	assert.NotContains(t, appErr.Message, "SECRETKEY123")
	assert.NotContains(t, err.Error(), "SECRETKEY123")
}

func TestOpenWeatherMapProvider_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := provider.GetCurrentWeather(ctx, "London")
		assert.True(t, errors.IsProviderError(err))
	}
	assert.Equal(t, "open", provider.BreakerState())

	_, err := provider.GetCurrentWeather(ctx, "London")

	assert.True(t, errors.IsConnectionError(err))
	assert.Equal(t, int32(2), hits.Load())
}

func TestOpenWeatherMapProvider_NotFoundDoesNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	for i := 0; i < 5; i++ {
		_, err := provider.GetCurrentWeather(context.Background(), "Atlantis")
		assert.True(t, errors.IsLocationNotFoundError(err))
	}
	assert.Equal(t, "closed", provider.BreakerState())
}

func TestOpenWeatherMapProvider_Defaults(t *testing.T) {
	provider := NewOpenWeatherMapProviderAdapter(OpenWeatherMapProviderParams{APIKey: "k"})

	assert.Equal(t, "http://api.openweathermap.org/data/2.5", provider.baseURL)
	assert.Equal(t, "openweathermap", provider.GetProviderName())
	assert.Equal(t, "closed", provider.BreakerState())
}
