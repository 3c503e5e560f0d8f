package notifier

// Recipient identifies a player a notification may be delivered to,
// along with their delivery preferences.
type Recipient struct {
	Name        string
	Email       string
	NotifyEmail bool
}

// MatchEvent carries everything a notification about a match needs.
// OldStartAt is only set for reschedules, Reason only for cancellations.
type MatchEvent struct {
	MatchID    string
	LadderName string
	StartAt    int64
	OldStartAt int64
	Team1Names []string
	Team2Names []string
	Recipients []Recipient
	Reason     string
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider
// (e.g., email or Slack).
type Notifier interface {
	// For account lifecycle
	SendVerificationEmail(name, email, link string, dryRun bool) error
	SendPasswordResetOTP(name, email, otp string, dryRun bool) error
	// For match lifecycle
	SendMatchConfirmed(event *MatchEvent, dryRun bool) error
	SendMatchRescheduled(event *MatchEvent, dryRun bool) error
	SendMatchCancelled(event *MatchEvent, dryRun bool) error
}
