package weather

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new ForecastStore.
func New(db *sql.DB) ForecastStore {
	return &store{
		db: db,
	}
}

const forecastColumns = `location, hour, temperature_c, precipitation_pct, wind_kph, symbol, updated_at`

func scanForecast(scanner interface{ Scan(...any) error }) (*Forecast, error) {
	var f Forecast
	err := scanner.Scan(&f.Location, &f.Hour, &f.TemperatureC, &f.PrecipitationPct, &f.WindKph, &f.Symbol, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Upsert writes the given forecasts, replacing any existing row for the same
// location and hour. Refreshes are idempotent.
func (s *store) Upsert(forecasts []Forecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO forecasts (` + forecastColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(location, hour) DO UPDATE SET
			temperature_c = excluded.temperature_c,
			precipitation_pct = excluded.precipitation_pct,
			wind_kph = excluded.wind_kph,
			symbol = excluded.symbol,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, f := range forecasts {
		if _, err := stmt.Exec(f.Location, f.Hour, f.TemperatureC, f.PrecipitationPct, f.WindKph, f.Symbol, f.UpdatedAt); err != nil {
			return fmt.Errorf("failed to upsert forecast for hour %d: %w", f.Hour, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debug("Upserted forecasts", "count", len(forecasts))
	return nil
}

// Window returns the cached forecasts for a location between from (inclusive)
// and to (exclusive), ordered by hour.
func (s *store) Window(location string, from, to int64) ([]Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+forecastColumns+`
		FROM forecasts
		WHERE location = ? AND hour >= ? AND hour < ?
		ORDER BY hour`, location, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast window: %w", err)
	}
	defer rows.Close()

	var forecasts []Forecast
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}
		forecasts = append(forecasts, *f)
	}
	return forecasts, rows.Err()
}

// PruneBefore deletes cached hours older than the cutoff.
func (s *store) PruneBefore(cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM forecasts WHERE hour < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune forecasts: %w", err)
	}
	return res.RowsAffected()
}
