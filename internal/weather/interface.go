package weather

// Client fetches hourly forecast data from an external provider.
type Client interface {
	HourlyForecast(latitude, longitude float64, days int) ([]Forecast, error)
}

// ForecastStore caches hourly forecasts for the calendar overlay.
type ForecastStore interface {
	Upsert(forecasts []Forecast) error
	Window(location string, from, to int64) ([]Forecast, error)
	PruneBefore(cutoff int64) (int64, error)
}
