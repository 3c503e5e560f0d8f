package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matchpoint-club/matchpoint/internal/metrics"
	"github.com/matchpoint-club/matchpoint/internal/notifier"
	"github.com/wneessen/go-mail"
)

// mailClient is an interface that contains the methods from the mail.Client that we use.
// This allows for easy mocking in tests.
type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

var _ notifier.Notifier = &Notifier{}

// Notifier delivers notifications to players over SMTP.
type Notifier struct {
	client  mailClient
	from    string
	metrics metrics.Metrics
}

// NewNotifier creates a new Notifier connected to the given SMTP server.
func NewNotifier(host string, port int, username, password, from string, metrics metrics.Metrics) (*Notifier, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return &Notifier{client: client, from: from, metrics: metrics}, nil
}

// NewNotifierWithClient creates a new Notifier with a specific mail client instance.
// Useful for tests that need to intercept sends.
func NewNotifierWithClient(client mailClient, from string, metrics metrics.Metrics) *Notifier {
	return &Notifier{client: client, from: from, metrics: metrics}
}

func (n *Notifier) send(to, subject, body string, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would send email", "to", to, "subject", subject, "body", body)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		n.metrics.IncEmailFailed()
		log.Error("Failed to send email", "error", err, "to", to, "subject", subject)
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.metrics.IncEmailSent()
	log.Info("Successfully sent email", "to", to, "subject", subject)
	return nil
}

func (n *Notifier) SendVerificationEmail(name, email, link string, dryRun bool) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to the club ladder. Please confirm your email address:\n\n%s\n\nIf you did not sign up, you can ignore this message.\n", name, link)
	return n.send(email, "Confirm your email", body, dryRun)
}

func (n *Notifier) SendPasswordResetOTP(name, email, otp string, dryRun bool) error {
	body := fmt.Sprintf("Hi %s,\n\nYour password reset code is:\n\n%s\n\nThe code expires in 15 minutes. If you did not request a reset, you can ignore this message.\n", name, otp)
	return n.send(email, "Your password reset code", body, dryRun)
}

func (n *Notifier) SendMatchConfirmed(event *notifier.MatchEvent, dryRun bool) error {
	subject := fmt.Sprintf("Match confirmed: %s", formatSlotTime(event.StartAt))
	body := fmt.Sprintf("Your match is confirmed.\n\nLadder: %s\nTime: %s\n\n%s\nvs\n%s\n",
		event.LadderName,
		formatSlotTime(event.StartAt),
		strings.Join(event.Team1Names, " & "),
		strings.Join(event.Team2Names, " & "),
	)
	return n.sendToRecipients(event, subject, body, dryRun)
}

func (n *Notifier) SendMatchRescheduled(event *notifier.MatchEvent, dryRun bool) error {
	subject := fmt.Sprintf("Match rescheduled: now %s", formatSlotTime(event.StartAt))
	body := fmt.Sprintf("Your match has been rescheduled.\n\nLadder: %s\nWas: %s\nNow: %s\n\n%s\nvs\n%s\n",
		event.LadderName,
		formatSlotTime(event.OldStartAt),
		formatSlotTime(event.StartAt),
		strings.Join(event.Team1Names, " & "),
		strings.Join(event.Team2Names, " & "),
	)
	return n.sendToRecipients(event, subject, body, dryRun)
}

func (n *Notifier) SendMatchCancelled(event *notifier.MatchEvent, dryRun bool) error {
	subject := fmt.Sprintf("Match cancelled: %s", formatSlotTime(event.StartAt))
	body := fmt.Sprintf("Your match has been cancelled.\n\nLadder: %s\nTime: %s\n\n%s\nvs\n%s\n",
		event.LadderName,
		formatSlotTime(event.StartAt),
		strings.Join(event.Team1Names, " & "),
		strings.Join(event.Team2Names, " & "),
	)
	if event.Reason != "" {
		body += fmt.Sprintf("\nReason: %s\n", event.Reason)
	}
	return n.sendToRecipients(event, subject, body, dryRun)
}

// sendToRecipients delivers a match notification to every recipient who has
// opted in to email. A failing recipient does not stop the others.
func (n *Notifier) sendToRecipients(event *notifier.MatchEvent, subject, body string, dryRun bool) error {
	var lastErr error
	for _, r := range event.Recipients {
		if !r.NotifyEmail || r.Email == "" {
			continue
		}
		if err := n.send(r.Email, subject, body, dryRun); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func formatSlotTime(unix int64) string {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		return time.Unix(unix, 0).Format("Monday 02 Jan, 15:04")
	}
	return time.Unix(unix, 0).In(loc).Format("Monday 02 Jan, 15:04")
}
