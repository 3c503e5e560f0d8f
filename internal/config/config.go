package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getEnvDefault := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}
	getInt := func(key, fallback string) int {
		v, err := strconv.Atoi(getEnvDefault(key, fallback))
		if err != nil {
			log.Fatalf("Error: environment variable %s must be an integer: %s", key, err)
		}
		return v
	}
	getFloat := func(key, fallback string) float64 {
		v, err := strconv.ParseFloat(getEnvDefault(key, fallback), 64)
		if err != nil {
			log.Fatalf("Error: environment variable %s must be a number: %s", key, err)
		}
		return v
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		BaseURL:       getEnvDefault("BASE_URL", "http://localhost:8080"),
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME"),
			Password: getEnv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM"),
		},
		Slack: SlackConfig{
			Token:     getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvDefault("SLACK_CHANNEL_ID", ""),
		},
		Weather: WeatherConfig{
			BaseURL:   getEnvDefault("WEATHER_BASE_URL", "https://api.open-meteo.com"),
			Latitude:  getFloat("CLUB_LATITUDE", "55.6761"),
			Longitude: getFloat("CLUB_LONGITUDE", "12.5683"),
		},
		ProjectID: getEnv("GCP_PROJECT"),
		Session: SessionConfig{
			TTLHours: getInt("SESSION_TTL_HOURS", "168"),
		},
	}
	return cfg
}
