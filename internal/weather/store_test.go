package weather_test

import (
	"testing"
	"time"

	"github.com/matchpoint-club/matchpoint/internal/database"
	"github.com/matchpoint-club/matchpoint/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (weather.ForecastStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return weather.New(db), dbTeardown
}

func hourly(location string, base int64, n int) []weather.Forecast {
	now := time.Now().Unix()
	forecasts := make([]weather.Forecast, 0, n)
	for i := 0; i < n; i++ {
		forecasts = append(forecasts, weather.Forecast{
			Location:         location,
			Hour:             base + int64(i)*3600,
			TemperatureC:     15.5,
			PrecipitationPct: 20,
			WindKph:          12.0,
			Symbol:           "cloudy",
			UpdatedAt:        now,
		})
	}
	return forecasts
}

func TestUpsertAndWindow(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	const base = int64(1749427200)
	require.NoError(t, store.Upsert(hourly("55.6761,12.5683", base, 24)))

	window, err := store.Window("55.6761,12.5683", base, base+6*3600)
	require.NoError(t, err)
	require.Len(t, window, 6)
	assert.Equal(t, base, window[0].Hour)
	assert.Equal(t, "cloudy", window[0].Symbol)

	// Unknown location reads empty.
	window, err = store.Window("0.0000,0.0000", base, base+6*3600)
	require.NoError(t, err)
	assert.Empty(t, window)
}

func TestUpsertIsIdempotent(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	const base = int64(1749427200)
	require.NoError(t, store.Upsert(hourly("55.6761,12.5683", base, 3)))

	// A refresh with newer data replaces rows instead of duplicating them.
	refreshed := hourly("55.6761,12.5683", base, 3)
	for i := range refreshed {
		refreshed[i].TemperatureC = 18.0
		refreshed[i].Symbol = "clear"
	}
	require.NoError(t, store.Upsert(refreshed))

	window, err := store.Window("55.6761,12.5683", base, base+3*3600)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, 18.0, window[0].TemperatureC)
	assert.Equal(t, "clear", window[0].Symbol)
}

func TestPruneBefore(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	const base = int64(1749427200)
	require.NoError(t, store.Upsert(hourly("55.6761,12.5683", base, 10)))

	pruned, err := store.PruneBefore(base + 5*3600)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pruned)

	window, err := store.Window("55.6761,12.5683", base, base+10*3600)
	require.NoError(t, err)
	assert.Len(t, window, 5)
}
