package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesConfirmed   prometheus.Counter
	MatchesCancelled   prometheus.Counter
	ScoresRecorded     prometheus.Counter
	ReconcileDuration  prometheus.Histogram
	EmailSent          prometheus.Counter
	EmailFailed        prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	WeatherRefreshRuns prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
