package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	BaseURL       string
	Turso         TursoConfig
	SMTP          SMTPConfig
	Slack         SlackConfig
	Weather       WeatherConfig
	ProjectID     string
	Session       SessionConfig
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type WeatherConfig struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
}
type SessionConfig struct {
	TTLHours int
}
