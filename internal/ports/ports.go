package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Weather
	WeatherProvider WeatherProvider
	WeatherCache    WeatherCache

	// Notifications
	NotificationStore NotificationStore

	// Cache
	CacheProvider CacheProvider
	CacheMetrics  CacheMetrics

	// Infrastructure
	ConfigProvider ConfigProvider
	Logger         Logger
	Metrics        MetricsCollector
}
