package ports

import (
	"context"
	"time"
)

// WeatherConfig represents weather service configuration
type WeatherConfig struct {
	EnableCache bool
	CacheTTL    time.Duration
}

// SchedulerConfig represents scheduler configuration
type SchedulerConfig struct {
	Enabled           bool
	PollInterval      time.Duration
	ErrorBackoff      time.Duration
	NotificationTitle string
}

// StorageConfig represents notification storage configuration
type StorageConfig struct {
	Type     string
	FilePath string
}

// CacheConfig represents cache configuration
type CacheConfig struct {
	Type  string
	Redis RedisConfig
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  int
	ReadTimeout  int
	WriteTimeout int
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// ConfigProvider defines the contract for configuration management
type ConfigProvider interface {
	GetWeatherConfig() WeatherConfig
	GetSchedulerConfig() SchedulerConfig
	GetStorageConfig() StorageConfig
	GetCacheConfig() CacheConfig
	GetServerConfig() ServerConfig
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
	RecordWeatherAPICall(ctx context.Context, provider string, outcome string)
	RecordNotification(ctx context.Context, outcome string)
	RecordScan(ctx context.Context, matched int, duration time.Duration)
	RecordSchedulerBackoff(ctx context.Context)
}
