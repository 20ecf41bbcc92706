package ports

import (
	"context"
	"time"
)

// WeatherData is a single weather snapshot for one location
type WeatherData struct {
	City        string    `json:"city"`
	Temperature int       `json:"temp"`
	FeelsLike   int       `json:"feels_like"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// CacheStats represents cache performance metrics
type CacheStats struct {
	Hits        int64
	Misses      int64
	TotalOps    int64
	HitRatio    float64
	LastUpdated time.Time
}

// WeatherProvider defines the contract for the upstream weather provider
type WeatherProvider interface {
	GetCurrentWeather(ctx context.Context, location string) (*WeatherData, error)
	GetProviderName() string
}

// WeatherCache defines the contract for caching weather snapshots
type WeatherCache interface {
	Get(ctx context.Context, key string) (*WeatherData, error)
	Set(ctx context.Context, key string, weather *WeatherData, ttl time.Duration) error
}
