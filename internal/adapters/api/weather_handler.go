package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/pkg/errors"
)

// WeatherResponse represents the HTTP response for weather data
type WeatherResponse struct {
	City        string    `json:"city"`
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feels_like"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	FetchedAt   time.Time `json:"fetched_at"`
	Message     string    `json:"message"`
}

// getWeather handles GET /api/weather?city=
func (s *HTTPServerAdapter) getWeather(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		s.handleError(c, errors.NewValidationError("city parameter is required"))
		return
	}

	w, err := s.weatherUseCase.GetWeather(c.Request.Context(), weather.WeatherRequest{Location: city})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, WeatherResponse{
		City:        w.City,
		Temperature: w.Temperature,
		FeelsLike:   w.FeelsLike,
		Description: w.Description,
		Humidity:    w.Humidity,
		WindSpeed:   w.WindSpeed,
		FetchedAt:   w.FetchedAt,
		Message:     weather.FormatMessage(w, weather.DefaultTitle),
	})
}
