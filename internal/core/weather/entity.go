package weather

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"weatherbot.app/pkg/validation"
)

// MinLocationLength is the shortest accepted location query, in characters
const MinLocationLength = 2

// Weather is a snapshot of current conditions for one location
type Weather struct {
	City        string
	Temperature int
	FeelsLike   int
	Description string
	Humidity    int
	WindSpeed   float64
	FetchedAt   time.Time
}

// WeatherRequest represents a request for weather information
type WeatherRequest struct {
	Location string
}

// IsValid validates weather data
func (w *Weather) IsValid() error {
	if strings.TrimSpace(w.City) == "" {
		return fmt.Errorf("city cannot be empty")
	}
	if strings.TrimSpace(w.Description) == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if w.Temperature < -274 {
		return fmt.Errorf("temperature cannot be below absolute zero")
	}
	if w.Humidity < 0 || w.Humidity > 100 {
		return fmt.Errorf("humidity must be between 0 and 100")
	}
	if w.WindSpeed < 0 {
		return fmt.Errorf("wind speed cannot be negative")
	}
	return nil
}

// IsValid validates weather request
func (wr *WeatherRequest) IsValid() error {
	if !validation.HasMinLength(wr.Location, MinLocationLength) {
		return fmt.Errorf("location must be at least %d characters", MinLocationLength)
	}
	return nil
}

// NormalizeLocation trims surrounding whitespace. Case is preserved.
func (wr *WeatherRequest) NormalizeLocation() {
	wr.Location = strings.TrimSpace(wr.Location)
}

// IsFresh reports whether the snapshot is younger than ttl at now
func (w *Weather) IsFresh(now time.Time, ttl time.Duration) bool {
	if w.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(w.FetchedAt) < ttl
}

// RoundTemperature rounds half to even, matching the provider's reference client
func RoundTemperature(celsius float64) int {
	return int(math.RoundToEven(celsius))
}

// RoundWind rounds a wind speed to one decimal place.
// Rounding works on the exact binary value, so 0.15 (stored just below) becomes 0.1.
func RoundWind(speed float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(speed, 'f', 1, 64), 64)
	if err != nil {
		return speed
	}
	return rounded
}

// String returns a string representation of the weather
func (w *Weather) String() string {
	return fmt.Sprintf("%s: %d°C (feels %d°C), %d%% humidity, %.1f m/s, %s",
		w.City, w.Temperature, w.FeelsLike, w.Humidity, w.WindSpeed, w.Description)
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}
