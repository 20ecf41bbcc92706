package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"weatherbot.app/pkg/errors"
)

const (
	maxRedisDB    = 15
	maxCacheTTL   = 24 * time.Hour
	maxPortNumber = 65535
	minPoll       = time.Second
)

// Config represents the application configuration structure
type Config struct {
	Telegram  TelegramConfig  `split_words:"true"`
	Weather   WeatherConfig   `split_words:"true"`
	Scheduler SchedulerConfig `split_words:"true"`
	Storage   StorageConfig   `split_words:"true"`
	Cache     CacheConfig     `split_words:"true"`
	Server    ServerConfig    `split_words:"true"`
	Logging   LoggingConfig   `split_words:"true"`
}

type TelegramConfig struct {
	BotToken       string `envconfig:"BOT_TOKEN"`
	Debug          bool   `envconfig:"BOT_DEBUG" default:"false"`
	UpdatesTimeout int    `envconfig:"BOT_UPDATES_TIMEOUT" default:"30"`
}

type WeatherConfig struct {
	APIKey          string        `envconfig:"WEATHER_API_KEY"`
	BaseURL         string        `envconfig:"WEATHER_API_BASE_URL" default:"http://api.openweathermap.org/data/2.5"`
	Language        string        `envconfig:"WEATHER_LANG" default:"ru"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"600s"`
	EnableCache     bool          `envconfig:"WEATHER_ENABLE_CACHE" default:"true"`
	EnableLogging   bool          `envconfig:"WEATHER_ENABLE_LOGGING" default:"true"`
	BreakerFailures uint32        `envconfig:"WEATHER_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"WEATHER_BREAKER_TIMEOUT" default:"30s"`
}

type SchedulerConfig struct {
	Enabled           bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	PollInterval      time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
	ErrorBackoff      time.Duration `envconfig:"ERROR_BACKOFF" default:"60s"`
	NotificationTitle string        `envconfig:"NOTIFICATION_TITLE" default:"⏰ Ежедневный прогноз"`
}

// StorageType represents the notification store backend
type StorageType int

const (
	StorageTypeUnknown StorageType = iota
	StorageTypeFile
	StorageTypeSQLite
	StorageTypePostgres
)

// String returns the string representation of storage type
func (s StorageType) String() string {
	switch s {
	case StorageTypeFile:
		return "file"
	case StorageTypeSQLite:
		return "sqlite"
	case StorageTypePostgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// IsValid checks if the storage type is valid
func (s StorageType) IsValid() bool {
	return s == StorageTypeFile || s == StorageTypeSQLite || s == StorageTypePostgres
}

// StorageTypeFromString converts string to StorageType enum
func StorageTypeFromString(s string) StorageType {
	switch s {
	case "file":
		return StorageTypeFile
	case "sqlite":
		return StorageTypeSQLite
	case "postgres":
		return StorageTypePostgres
	default:
		return StorageTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (s *StorageType) UnmarshalText(text []byte) error {
	*s = StorageTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (s StorageType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type StorageConfig struct {
	Type       StorageType    `envconfig:"STORAGE_TYPE" default:"file"`
	FilePath   string         `envconfig:"NOTIFICATIONS_FILE" default:"notifications.json"`
	SQLitePath string         `envconfig:"SQLITE_PATH" default:"notifications.db"`
	Postgres   PostgresConfig `split_words:"true"`
}

type PostgresConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"weatherbot"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// CacheType represents the type of cache to use
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeMemory
	CacheTypeRedis
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeMemory || c == CacheTypeRedis
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch s {
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Type  CacheType   `envconfig:"CACHE_TYPE" default:"memory"`
	Redis RedisConfig `split_words:"true"`
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

// ServerConfig binds the ops server to loopback unless SERVER_HOST says otherwise
type ServerConfig struct {
	Enabled bool   `envconfig:"SERVER_ENABLED" default:"true"`
	Host    string `envconfig:"SERVER_HOST" default:"127.0.0.1"`
	Port    int    `envconfig:"SERVER_PORT" default:"8080"`
}

type LoggingConfig struct {
	Backend  string `envconfig:"LOG_BACKEND" default:"slog"`
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	FilePath string `envconfig:"LOG_FILE_PATH" default:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Telegram.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

func (t *TelegramConfig) Validate() error {
	if strings.TrimSpace(t.BotToken) == "" {
		return errors.NewConfigurationError("BOT_TOKEN cannot be empty", nil)
	}
	if t.UpdatesTimeout < 0 {
		return errors.NewConfigurationError("BOT_UPDATES_TIMEOUT cannot be negative", nil)
	}
	return nil
}

func (w *WeatherConfig) Validate() error {
	if strings.TrimSpace(w.APIKey) == "" {
		return errors.NewConfigurationError("WEATHER_API_KEY cannot be empty", nil)
	}
	if !strings.HasPrefix(w.BaseURL, "http://") && !strings.HasPrefix(w.BaseURL, "https://") {
		return errors.NewConfigurationError("WEATHER_API_BASE_URL must start with http:// or https://", nil)
	}
	if w.Language == "" {
		return errors.NewConfigurationError("WEATHER_LANG cannot be empty", nil)
	}
	if w.RequestTimeout <= 0 {
		return errors.NewConfigurationError("REQUEST_TIMEOUT must be positive", nil)
	}
	if w.CacheTTL <= 0 || w.CacheTTL > maxCacheTTL {
		return errors.NewConfigurationError("CACHE_TTL must be between 1s and 24h", nil)
	}
	if w.BreakerFailures == 0 {
		return errors.NewConfigurationError("WEATHER_BREAKER_FAILURES must be at least 1", nil)
	}
	if w.BreakerTimeout <= 0 {
		return errors.NewConfigurationError("WEATHER_BREAKER_TIMEOUT must be positive", nil)
	}
	return nil
}

func (s *SchedulerConfig) Validate() error {
	if s.PollInterval < minPoll {
		return errors.NewConfigurationError("POLL_INTERVAL must be at least 1s", nil)
	}
	if s.PollInterval > time.Minute {
		return errors.NewConfigurationError("POLL_INTERVAL cannot exceed 1m or scheduled minutes would be skipped", nil)
	}
	if s.ErrorBackoff < minPoll {
		return errors.NewConfigurationError("ERROR_BACKOFF must be at least 1s", nil)
	}
	if strings.TrimSpace(s.NotificationTitle) == "" {
		return errors.NewConfigurationError("NOTIFICATION_TITLE cannot be empty", nil)
	}
	return nil
}

func (s *StorageConfig) Validate() error {
	if !s.Type.IsValid() {
		return errors.NewConfigurationError("STORAGE_TYPE must be one of: file, sqlite, postgres", nil)
	}

	switch s.Type {
	case StorageTypeFile:
		if s.FilePath == "" {
			return errors.NewConfigurationError("NOTIFICATIONS_FILE cannot be empty", nil)
		}
	case StorageTypeSQLite:
		if s.SQLitePath == "" {
			return errors.NewConfigurationError("SQLITE_PATH cannot be empty", nil)
		}
	case StorageTypePostgres:
		return s.Postgres.Validate()
	}

	return nil
}

func (p *PostgresConfig) Validate() error {
	if p.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if p.Port < 1 || p.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if p.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if p.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if p.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis", nil)
	}

	if c.Type == CacheTypeRedis {
		return c.Redis.Validate()
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when using Redis cache", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Enabled && (s.Port < 1 || s.Port > maxPortNumber) {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	switch l.Backend {
	case "slog", "zap", "file":
	default:
		return errors.NewConfigurationError("LOG_BACKEND must be one of: slog, zap, file", nil)
	}
	if l.Backend == "file" && l.FilePath == "" {
		return errors.NewConfigurationError("LOG_FILE_PATH is required when LOG_BACKEND is file", nil)
	}
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigurationError("LOG_LEVEL must be one of: debug, info, warn, error", nil)
	}
	return nil
}
