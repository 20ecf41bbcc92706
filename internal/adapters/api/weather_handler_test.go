package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/mocks"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

func setupWeatherTestRouter(t *testing.T) (*gin.Engine, *mocks.WeatherProvider, *mocks.WeatherCache) {
	gin.SetMode(gin.TestMode)

	provider := mocks.NewWeatherProvider(t)
	cache := mocks.NewWeatherCache(t)
	cfg := mocks.NewConfigProvider(t)
	cfg.On("GetWeatherConfig").Return(ports.WeatherConfig{
		EnableCache: true,
		CacheTTL:    10 * time.Minute,
	}).Maybe()

	weatherUseCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		WeatherProvider: provider,
		Cache:           cache,
		Config:          cfg,
		Logger:          mocks.NewPermissiveLogger(t),
		Metrics:         mocks.NewPermissiveMetricsCollector(t),
		Clock:           func() time.Time { return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	server := &HTTPServerAdapter{weatherUseCase: weatherUseCase, logger: mocks.NewPermissiveLogger(t)}

	router := gin.New()
	router.GET("/api/weather", server.getWeather)

	return router, provider, cache
}

func TestWeatherHandler_GetWeather_Success(t *testing.T) {
	router, provider, cache := setupWeatherTestRouter(t)

	cache.On("Get", mock.Anything, "weather:London").Return(nil, errors.NewNotFoundError("cache miss")).Once()
	provider.On("GetCurrentWeather", mock.Anything, "London").Return(&ports.WeatherData{
		City: "London", Temperature: 15, FeelsLike: 13, Description: "light rain", Humidity: 78, WindSpeed: 4.1,
	}, nil).Once()
	cache.On("Set", mock.Anything, "weather:London", mock.Anything, 10*time.Minute).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/weather?city=London", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response WeatherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "London", response.City)
	assert.Equal(t, 15, response.Temperature)
	assert.Equal(t, 13, response.FeelsLike)
	assert.Equal(t, 78, response.Humidity)
	assert.Equal(t, 4.1, response.WindSpeed)
	assert.Contains(t, response.Message, "<b>London</b>")
}

func TestWeatherHandler_GetWeather_Errors(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		providerErr error
		wantStatus  int
		wantType    string
	}{
		{name: "MissingCity", query: "", wantStatus: http.StatusBadRequest, wantType: "VALIDATION_ERROR"},
		{name: "TooShort", query: "?city=X", wantStatus: http.StatusBadRequest, wantType: "INVALID_LOCATION"},
		{name: "NotFound", query: "?city=Atlantis", providerErr: errors.NewLocationNotFoundError("city not found"), wantStatus: http.StatusNotFound, wantType: "LOCATION_NOT_FOUND"},
		{name: "Connection", query: "?city=Atlantis", providerErr: errors.NewConnectionError("refused", nil), wantStatus: http.StatusServiceUnavailable, wantType: "CONNECTION_ERROR"},
		{name: "Provider", query: "?city=Atlantis", providerErr: errors.NewProviderError("Invalid API key", nil), wantStatus: http.StatusBadGateway, wantType: "PROVIDER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, provider, cache := setupWeatherTestRouter(t)
			if tt.providerErr != nil {
				cache.On("Get", mock.Anything, "weather:Atlantis").Return(nil, errors.NewNotFoundError("cache miss")).Once()
				provider.On("GetCurrentWeather", mock.Anything, "Atlantis").Return(nil, tt.providerErr).Once()
			}

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/api/weather"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantType, response.Type)
			cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestServer_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	health := &stubHealth{statuses: map[string]ports.HealthStatus{
		"store": {Component: "store", Status: "healthy"},
		"cache": {Component: "cache", Status: "healthy"},
	}}
	server, err := NewHTTPServerAdapter(ServerOptions{
		Config:              ServerConfig{Port: 0},
		WeatherUseCase:      weatherFunc(func(ctx context.Context, r weather.WeatherRequest) (*weather.Weather, error) { return nil, errors.NewLocationNotFoundError("x") }),
		NotificationUseCase: &stubSchedules{},
		HealthChecker:       health,
		MetricsHandler:      http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		Logger:              mocks.NewPermissiveLogger(t),
	})
	require.NoError(t, err)
	router := server.GetRouter()

	t.Run("HealthOK", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response.Status)
		assert.Len(t, response.Components, 2)
	})

	t.Run("HealthDegraded", func(t *testing.T) {
		health.statuses["cache"] = ports.HealthStatus{Component: "cache", Status: "degraded"}
		defer func() { health.statuses["cache"] = ports.HealthStatus{Component: "cache", Status: "healthy"} }()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "degraded", response.Status)
	})

	t.Run("HealthUnhealthy", func(t *testing.T) {
		health.statuses["store"] = ports.HealthStatus{Component: "store", Status: "unhealthy", Error: "disk"}
		defer func() { health.statuses["store"] = ports.HealthStatus{Component: "store", Status: "healthy"} }()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "# metrics", w.Body.String())
	})

	t.Run("WeatherNotFound", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/weather?city=Atlantis", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewHTTPServerAdapter_RequiresDependencies(t *testing.T) {
	_, err := NewHTTPServerAdapter(ServerOptions{})
	assert.True(t, errors.IsValidationError(err))
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: 8080}.Addr())
	assert.Equal(t, ":9090", ServerConfig{Port: 9090}.Addr())
	assert.Equal(t, "[::1]:8080", ServerConfig{Host: "::1", Port: 8080}.Addr())
}
