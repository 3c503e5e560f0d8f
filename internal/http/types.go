package http

import (
	"net/http"

	"github.com/matchpoint-club/matchpoint/internal/auth"
	"github.com/matchpoint-club/matchpoint/internal/availability"
	"github.com/matchpoint-club/matchpoint/internal/config"
	"github.com/matchpoint-club/matchpoint/internal/ladder"
	"github.com/matchpoint-club/matchpoint/internal/match"
	"github.com/matchpoint-club/matchpoint/internal/metrics"
	"github.com/matchpoint-club/matchpoint/internal/notifier"
	"github.com/matchpoint-club/matchpoint/internal/player"
	"github.com/matchpoint-club/matchpoint/internal/pubsub"
	"github.com/matchpoint-club/matchpoint/internal/weather"
)

type Server struct {
	Players        player.PlayerStore
	Ladders        ladder.LadderStore
	Availability   availability.Store
	Matches        match.MatchStore
	Sessions       auth.Sessions
	Forecasts      weather.ForecastStore
	WeatherClient  weather.Client
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
