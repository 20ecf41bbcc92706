package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"weatherbot.app/internal/ports"
)

// WeatherProvider is a mock implementation of ports.WeatherProvider
type WeatherProvider struct {
	mock.Mock
}

func (_m *WeatherProvider) GetCurrentWeather(ctx context.Context, location string) (*ports.WeatherData, error) {
	ret := _m.Called(ctx, location)

	var r0 *ports.WeatherData
	if rf, ok := ret.Get(0).(func(context.Context, string) *ports.WeatherData); ok {
		r0 = rf(ctx, location)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ports.WeatherData)
	}

	return r0, ret.Error(1)
}

func (_m *WeatherProvider) GetProviderName() string {
	ret := _m.Called()
	return ret.String(0)
}

// NewWeatherProvider creates a new WeatherProvider mock and registers expectation assertions on cleanup
func NewWeatherProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *WeatherProvider {
	m := &WeatherProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// WeatherCache is a mock implementation of ports.WeatherCache
type WeatherCache struct {
	mock.Mock
}

func (_m *WeatherCache) Get(ctx context.Context, key string) (*ports.WeatherData, error) {
	ret := _m.Called(ctx, key)

	var r0 *ports.WeatherData
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ports.WeatherData)
	}

	return r0, ret.Error(1)
}

func (_m *WeatherCache) Set(ctx context.Context, key string, weather *ports.WeatherData, ttl time.Duration) error {
	ret := _m.Called(ctx, key, weather, ttl)
	return ret.Error(0)
}

// NewWeatherCache creates a new WeatherCache mock and registers expectation assertions on cleanup
func NewWeatherCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *WeatherCache {
	m := &WeatherCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
