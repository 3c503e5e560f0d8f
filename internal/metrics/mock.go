package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	matchesConfirmed   int
	matchesCancelled   int
	scoresRecorded     int
	reconcileDurations []float64
	emailSent          int
	emailFailed        int
	slackNotifSent     int
	slackNotifFailed   int
	weatherRefreshRuns int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		reconcileDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesConfirmed++
}

func (m *Mock) IncMatchesCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCancelled++
}

func (m *Mock) IncScoresRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoresRecorded++
}

func (m *Mock) ObserveReconcileDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileDurations = append(m.reconcileDurations, duration)
}

func (m *Mock) IncEmailSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailSent++
}

func (m *Mock) IncEmailFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailFailed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncWeatherRefreshRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weatherRefreshRuns++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesConfirmed returns the number of times IncMatchesConfirmed was called.
func (m *Mock) MatchesConfirmed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesConfirmed
}

// MatchesCancelled returns the number of times IncMatchesCancelled was called.
func (m *Mock) MatchesCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCancelled
}

// ScoresRecorded returns the number of times IncScoresRecorded was called.
func (m *Mock) ScoresRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoresRecorded
}

// EmailSent returns the number of times IncEmailSent was called.
func (m *Mock) EmailSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emailSent
}

// EmailFailed returns the number of times IncEmailFailed was called.
func (m *Mock) EmailFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emailFailed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// WeatherRefreshRuns returns the number of times IncWeatherRefreshRuns was called.
func (m *Mock) WeatherRefreshRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.weatherRefreshRuns
}
