package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"weatherbot.app/internal/ports"
)

// ConfigProvider is a mock implementation of ports.ConfigProvider
type ConfigProvider struct {
	mock.Mock
}

func (_m *ConfigProvider) GetWeatherConfig() ports.WeatherConfig {
	return _m.Called().Get(0).(ports.WeatherConfig)
}

func (_m *ConfigProvider) GetSchedulerConfig() ports.SchedulerConfig {
	return _m.Called().Get(0).(ports.SchedulerConfig)
}

func (_m *ConfigProvider) GetStorageConfig() ports.StorageConfig {
	return _m.Called().Get(0).(ports.StorageConfig)
}

func (_m *ConfigProvider) GetCacheConfig() ports.CacheConfig {
	return _m.Called().Get(0).(ports.CacheConfig)
}

func (_m *ConfigProvider) GetServerConfig() ports.ServerConfig {
	return _m.Called().Get(0).(ports.ServerConfig)
}

// NewConfigProvider creates a new ConfigProvider mock and registers expectation assertions on cleanup
func NewConfigProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *ConfigProvider {
	m := &ConfigProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MetricsCollector is a mock implementation of ports.MetricsCollector
type MetricsCollector struct {
	mock.Mock
}

func (_m *MetricsCollector) RecordCacheHit(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *MetricsCollector) RecordCacheMiss(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *MetricsCollector) RecordWeatherAPICall(ctx context.Context, provider string, outcome string) {
	_m.Called(ctx, provider, outcome)
}

func (_m *MetricsCollector) RecordNotification(ctx context.Context, outcome string) {
	_m.Called(ctx, outcome)
}

func (_m *MetricsCollector) RecordScan(ctx context.Context, matched int, duration time.Duration) {
	_m.Called(ctx, matched, duration)
}

func (_m *MetricsCollector) RecordSchedulerBackoff(ctx context.Context) {
	_m.Called(ctx)
}

// NewMetricsCollector creates a new MetricsCollector mock and registers expectation assertions on cleanup
func NewMetricsCollector(t interface {
	mock.TestingT
	Cleanup(func())
}) *MetricsCollector {
	m := &MetricsCollector{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// NewPermissiveMetricsCollector creates a MetricsCollector mock that accepts any recording
func NewPermissiveMetricsCollector(t interface {
	mock.TestingT
	Cleanup(func())
}) *MetricsCollector {
	m := NewMetricsCollector(t)
	m.On("RecordCacheHit", mock.Anything).Maybe()
	m.On("RecordCacheMiss", mock.Anything).Maybe()
	m.On("RecordWeatherAPICall", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordNotification", mock.Anything, mock.Anything).Maybe()
	m.On("RecordScan", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordSchedulerBackoff", mock.Anything).Maybe()
	return m
}
