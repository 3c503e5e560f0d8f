package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_matches_confirmed_total",
			Help: "The total number of matches confirmed.",
		}),
		MatchesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_matches_cancelled_total",
			Help: "The total number of matches cancelled.",
		}),
		ScoresRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_scores_recorded_total",
			Help: "The total number of match scores recorded.",
		}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchpoint_schedule_reconcile_duration_seconds",
			Help:    "The duration of a full weekly schedule reconciliation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EmailSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_emails_sent_total",
			Help: "The total number of emails successfully sent.",
		}),
		EmailFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_emails_failed_total",
			Help: "The total number of emails that failed to send.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		WeatherRefreshRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_weather_refresh_runs_total",
			Help: "The total number of times the forecast refresh has run.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchpoint_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesConfirmed,
		s.MatchesCancelled,
		s.ScoresRecorded,
		s.ReconcileDuration,
		s.EmailSent,
		s.EmailFailed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.WeatherRefreshRuns,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesConfirmed() {
	s.MatchesConfirmed.Inc()
}

func (s *Service) IncMatchesCancelled() {
	s.MatchesCancelled.Inc()
}

func (s *Service) IncScoresRecorded() {
	s.ScoresRecorded.Inc()
}

func (s *Service) ObserveReconcileDuration(duration float64) {
	s.ReconcileDuration.Observe(duration)
}

func (s *Service) IncEmailSent() {
	s.EmailSent.Inc()
}

func (s *Service) IncEmailFailed() {
	s.EmailFailed.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncWeatherRefreshRuns() {
	s.WeatherRefreshRuns.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
