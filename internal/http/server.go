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

func NewServer(
	players player.PlayerStore,
	ladders ladder.LadderStore,
	availabilityStore availability.Store,
	matches match.MatchStore,
	sessions auth.Sessions,
	forecasts weather.ForecastStore,
	weatherClient weather.Client,
	notifier notifier.Notifier,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	pubsub pubsub.PubSubClient,
) *Server {
	server := &Server{
		Players:        players,
		Ladders:        ladders,
		Availability:   availabilityStore,
		Matches:        matches,
		Sessions:       sessions,
		Forecasts:      forecasts,
		WeatherClient:  weatherClient,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Authenticated routes additionally carry the session middleware, which
	// resolves the cookie to a Principal in the request context.
	authed := auth.Middleware(s.Sessions)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	// Account lifecycle
	s.Router.Handle("POST /register", Chain(s.RegisterHandler(), paramsMiddleware))
	s.Router.Handle("POST /verify", Chain(s.VerifyHandler(), paramsMiddleware))
	s.Router.Handle("POST /login", Chain(s.LoginHandler(), paramsMiddleware))
	s.Router.Handle("POST /logout", Chain(s.LogoutHandler(), paramsMiddleware))
	s.Router.Handle("POST /password/reset-request", Chain(s.PasswordResetRequestHandler(), paramsMiddleware))
	s.Router.Handle("POST /password/reset", Chain(s.PasswordResetHandler(), paramsMiddleware))

	// Profile and partnership
	s.Router.Handle("GET /profile", Chain(s.GetProfileHandler(), paramsMiddleware, authed))
	s.Router.Handle("PUT /profile", Chain(s.UpdateProfileHandler(), paramsMiddleware, authed))
	s.Router.Handle("DELETE /profile", Chain(s.DeleteProfileHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /partner/link", Chain(s.PartnerLinkHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /partner/unlink", Chain(s.PartnerUnlinkHandler(), paramsMiddleware, authed))

	// Ladders
	s.Router.Handle("GET /ladders", Chain(s.ListLaddersHandler(), paramsMiddleware))
	s.Router.Handle("GET /ladders/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("POST /ladders/switch", Chain(s.LadderSwitchHandler(), paramsMiddleware, authed))

	// Availability calendar
	s.Router.Handle("GET /availability", Chain(s.GetAvailabilityHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /availability", Chain(s.SaveAvailabilityHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /availability/cycle", Chain(s.CycleSlotHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /availability/proxy", Chain(s.ProxySaveHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /availability/proxy/cycle", Chain(s.ProxyCycleHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /availability/takeover", Chain(s.TakeoverHandler(), paramsMiddleware, authed))
	s.Router.Handle("GET /teams/availability", Chain(s.TeamsAvailabilityHandler(), paramsMiddleware, authed))
	s.Router.Handle("GET /teams/matches", Chain(s.TeamMatchesHandler(), paramsMiddleware, authed))

	// Match lifecycle
	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /matches/confirm", Chain(s.ConfirmMatchHandler(), paramsMiddleware, authed))
	s.Router.Handle("PUT /matches/reschedule", Chain(s.RescheduleMatchHandler(), paramsMiddleware, authed))
	s.Router.Handle("DELETE /matches/cancel", Chain(s.CancelMatchHandler(), paramsMiddleware, authed))
	s.Router.Handle("POST /scores", Chain(s.RecordScoreHandler(), paramsMiddleware, authed))

	// Weather overlay
	s.Router.Handle("GET /weather", Chain(s.WeatherHandler(), paramsMiddleware))
	s.Router.Handle("POST /weather/refresh", Chain(s.WeatherRefreshHandler(), paramsMiddleware))

	// Cron and pub/sub push endpoints
	s.Router.Handle("POST /cleanup", Chain(s.CleanupHandler(), paramsMiddleware))
	s.Router.Handle("POST /notify/match", Chain(s.NotifyMatchHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
