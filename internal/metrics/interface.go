package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesConfirmed()
	IncMatchesCancelled()
	IncScoresRecorded()
	ObserveReconcileDuration(duration float64)
	IncEmailSent()
	IncEmailFailed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncWeatherRefreshRuns()
	SetStartupTime(duration float64)
}
