package notifier

import "sync"

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendVerificationEmailCalls []struct {
		Name  string
		Email string
		Link  string
	}
	SendPasswordResetOTPCalls []struct {
		Name  string
		Email string
		OTP   string
	}
	SendMatchConfirmedCalls   []*MatchEvent
	SendMatchRescheduledCalls []*MatchEvent
	SendMatchCancelledCalls   []*MatchEvent

	// Optional error to return from every method.
	Err error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendVerificationEmailCalls = nil
	m.SendPasswordResetOTPCalls = nil
	m.SendMatchConfirmedCalls = nil
	m.SendMatchRescheduledCalls = nil
	m.SendMatchCancelledCalls = nil
}

func (m *Mock) SendVerificationEmail(name, email, link string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendVerificationEmailCalls = append(m.SendVerificationEmailCalls, struct {
		Name  string
		Email string
		Link  string
	}{name, email, link})
	return m.Err
}

func (m *Mock) SendPasswordResetOTP(name, email, otp string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPasswordResetOTPCalls = append(m.SendPasswordResetOTPCalls, struct {
		Name  string
		Email string
		OTP   string
	}{name, email, otp})
	return m.Err
}

func (m *Mock) SendMatchConfirmed(event *MatchEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchConfirmedCalls = append(m.SendMatchConfirmedCalls, event)
	return m.Err
}

func (m *Mock) SendMatchRescheduled(event *MatchEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchRescheduledCalls = append(m.SendMatchRescheduledCalls, event)
	return m.Err
}

func (m *Mock) SendMatchCancelled(event *MatchEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchCancelledCalls = append(m.SendMatchCancelledCalls, event)
	return m.Err
}
