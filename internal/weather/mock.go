package weather

import "sync"

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	HourlyForecastFunc func(latitude, longitude float64, days int) ([]Forecast, error)

	// Call records
	HourlyForecastCalls []struct {
		Latitude  float64
		Longitude float64
		Days      int
	}
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HourlyForecastCalls = nil
}

func (m *MockClient) HourlyForecast(latitude, longitude float64, days int) ([]Forecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HourlyForecastCalls = append(m.HourlyForecastCalls, struct {
		Latitude  float64
		Longitude float64
		Days      int
	}{latitude, longitude, days})
	if m.HourlyForecastFunc != nil {
		return m.HourlyForecastFunc(latitude, longitude, days)
	}
	return []Forecast{}, nil
}
