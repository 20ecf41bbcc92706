package external

import (
	"fmt"

	"weatherbot.app/internal/config"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// CacheBackend is the storage behind the weather cache, selected by CACHE_TYPE
type CacheBackend struct {
	Provider ports.CacheProvider
	Stats    ports.CacheMetrics
	// Redis is set only for the redis backend
	Redis *RedisCacheProviderAdapter

	kind config.CacheType
}

func NewCacheBackend(cfg *config.CacheConfig) (*CacheBackend, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	backend := &CacheBackend{kind: cfg.Type}
	switch cfg.Type {
	case config.CacheTypeMemory:
		memory := NewMemoryCacheProvider()
		backend.Provider, backend.Stats = memory, memory
	case config.CacheTypeRedis:
		redis, err := NewRedisCacheProviderAdapter(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		backend.Provider, backend.Stats, backend.Redis = redis, redis, redis
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type.String()), nil)
	}
	return backend, nil
}

// Name reports the backend kind for logs and health output
func (b *CacheBackend) Name() string {
	return b.kind.String()
}

// WeatherCache wraps the backend in the JSON codec the weather use case reads through
func (b *CacheBackend) WeatherCache() ports.WeatherCache {
	return NewWeatherCacheAdapter(b.Provider)
}

// Close releases the redis pool; the memory backend holds nothing
func (b *CacheBackend) Close() error {
	if b.Redis == nil {
		return nil
	}
	return b.Redis.Close()
}
