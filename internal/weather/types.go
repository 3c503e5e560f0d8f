package weather

import (
	"database/sql"
	"sync"
)

// Forecast is one hour of forecast data for a location.
type Forecast struct {
	Location         string  `json:"location"`
	Hour             int64   `json:"hour"`
	TemperatureC     float64 `json:"temperature_c"`
	PrecipitationPct int     `json:"precipitation_pct"`
	WindKph          float64 `json:"wind_kph"`
	Symbol           string  `json:"symbol"`
	UpdatedAt        int64   `json:"updated_at"`
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
