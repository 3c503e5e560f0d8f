package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient fetches hourly forecasts from an Open-Meteo compatible endpoint.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a new forecast client.
func NewClient(baseURL string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

var _ Client = (*APIClient)(nil)

type forecastResponse struct {
	Hourly struct {
		Time                     []int64   `json:"time"`
		Temperature2m            []float64 `json:"temperature_2m"`
		PrecipitationProbability []int     `json:"precipitation_probability"`
		WindSpeed10m             []float64 `json:"wind_speed_10m"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"hourly"`
}

// LocationKey is the cache key for a coordinate pair.
func LocationKey(latitude, longitude float64) string {
	return fmt.Sprintf("%.4f,%.4f", latitude, longitude)
}

// HourlyForecast fetches the hourly forecast for the given coordinates.
func (c *APIClient) HourlyForecast(latitude, longitude float64, days int) ([]Forecast, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", longitude))
	params.Set("hourly", "temperature_2m,precipitation_probability,wind_speed_10m,weather_code")
	params.Set("timeformat", "unixtime")
	params.Set("wind_speed_unit", "kmh")
	params.Set("forecast_days", fmt.Sprintf("%d", days))

	reqURL := fmt.Sprintf("%s/v1/forecast?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(context.Background(), "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Requesting hourly forecast", "url", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from forecast API", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	location := LocationKey(latitude, longitude)
	now := time.Now().Unix()

	forecasts := make([]Forecast, 0, len(fr.Hourly.Time))
	for i, hour := range fr.Hourly.Time {
		f := Forecast{
			Location:  location,
			Hour:      hour,
			UpdatedAt: now,
		}
		if i < len(fr.Hourly.Temperature2m) {
			f.TemperatureC = fr.Hourly.Temperature2m[i]
		}
		if i < len(fr.Hourly.PrecipitationProbability) {
			f.PrecipitationPct = fr.Hourly.PrecipitationProbability[i]
		}
		if i < len(fr.Hourly.WindSpeed10m) {
			f.WindKph = fr.Hourly.WindSpeed10m[i]
		}
		if i < len(fr.Hourly.WeatherCode) {
			f.Symbol = symbolForCode(fr.Hourly.WeatherCode[i])
		}
		forecasts = append(forecasts, f)
	}

	log.Info("Fetched hourly forecast", "location", location, "hours", len(forecasts))
	return forecasts, nil
}

// symbolForCode maps a WMO weather code to a coarse display symbol.
func symbolForCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "showers"
	case code >= 85 && code <= 86:
		return "snow"
	case code >= 95:
		return "thunder"
	default:
		return "unknown"
	}
}
