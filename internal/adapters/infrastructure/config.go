package infrastructure

import (
	"weatherbot.app/internal/config"
	"weatherbot.app/internal/ports"
)

// ConfigProviderAdapter implements the ConfigProvider port over the loaded env config
type ConfigProviderAdapter struct {
	config *config.Config
}

func NewConfigProviderAdapter(cfg *config.Config) *ConfigProviderAdapter {
	return &ConfigProviderAdapter{
		config: cfg,
	}
}

func (c *ConfigProviderAdapter) GetWeatherConfig() ports.WeatherConfig {
	return ports.WeatherConfig{
		EnableCache: c.config.Weather.EnableCache,
		CacheTTL:    c.config.Weather.CacheTTL,
	}
}

func (c *ConfigProviderAdapter) GetSchedulerConfig() ports.SchedulerConfig {
	return ports.SchedulerConfig{
		Enabled:           c.config.Scheduler.Enabled,
		PollInterval:      c.config.Scheduler.PollInterval,
		ErrorBackoff:      c.config.Scheduler.ErrorBackoff,
		NotificationTitle: c.config.Scheduler.NotificationTitle,
	}
}

// GetStorageConfig reports the backend and, for the file store, its path
func (c *ConfigProviderAdapter) GetStorageConfig() ports.StorageConfig {
	path := c.config.Storage.FilePath
	if c.config.Storage.Type == config.StorageTypeSQLite {
		path = c.config.Storage.SQLitePath
	}
	return ports.StorageConfig{
		Type:     c.config.Storage.Type.String(),
		FilePath: path,
	}
}

func (c *ConfigProviderAdapter) GetCacheConfig() ports.CacheConfig {
	return ports.CacheConfig{
		Type: c.config.Cache.Type.String(),
		Redis: ports.RedisConfig{
			Addr:         c.config.Cache.Redis.Addr,
			Password:     c.config.Cache.Redis.Password,
			DB:           c.config.Cache.Redis.DB,
			DialTimeout:  c.config.Cache.Redis.DialTimeout,
			ReadTimeout:  c.config.Cache.Redis.ReadTimeout,
			WriteTimeout: c.config.Cache.Redis.WriteTimeout,
		},
	}
}

func (c *ConfigProviderAdapter) GetServerConfig() ports.ServerConfig {
	return ports.ServerConfig{
		Enabled: c.config.Server.Enabled,
		Host:    c.config.Server.Host,
		Port:    c.config.Server.Port,
	}
}
