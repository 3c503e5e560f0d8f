package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matchpoint-club/matchpoint/internal/metrics"
	"github.com/matchpoint-club/matchpoint/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts match announcements to the club's Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendVerificationEmail is a no-op: account emails never go to the club channel.
func (s *Notifier) SendVerificationEmail(name, email, link string, dryRun bool) error {
	return nil
}

// SendPasswordResetOTP is a no-op: account emails never go to the club channel.
func (s *Notifier) SendPasswordResetOTP(name, email, otp string, dryRun bool) error {
	return nil
}

func (s *Notifier) SendMatchConfirmed(event *notifier.MatchEvent, dryRun bool) error {
	msg := s.formatMatchConfirmed(event)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendMatchRescheduled(event *notifier.MatchEvent, dryRun bool) error {
	msg := s.formatMatchRescheduled(event)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendMatchCancelled(event *notifier.MatchEvent, dryRun bool) error {
	msg := s.formatMatchCancelled(event)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func formatSlotTime(unix int64) string {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		return time.Unix(unix, 0).Format("Monday 02 Jan, 15:04")
	}
	return time.Unix(unix, 0).In(loc).Format("Monday 02 Jan, 15:04")
}

func teamsText(event *notifier.MatchEvent) string {
	return fmt.Sprintf("%s\nvs\n%s",
		strings.Join(event.Team1Names, " & "),
		strings.Join(event.Team2Names, " & "),
	)
}

// formatMatchConfirmed creates the Slack message for a newly confirmed match using Block Kit.
func (s *Notifier) formatMatchConfirmed(event *notifier.MatchEvent) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match confirmed! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Ladder: %s\nTime: %s", event.LadderName, formatSlotTime(event.StartAt))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", teamsText(event), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchRescheduled creates the Slack message for a rescheduled match.
func (s *Notifier) formatMatchRescheduled(event *notifier.MatchEvent) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🕒 Match rescheduled", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Ladder: %s\nWas: %s\nNow: %s",
		event.LadderName,
		formatSlotTime(event.OldStartAt),
		formatSlotTime(event.StartAt),
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", teamsText(event), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchCancelled creates the Slack message for a cancelled match.
func (s *Notifier) formatMatchCancelled(event *notifier.MatchEvent) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "❌ Match cancelled", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Ladder: %s\nTime: %s", event.LadderName, formatSlotTime(event.StartAt))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", teamsText(event), true, false), nil, nil))

	if event.Reason != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", fmt.Sprintf("Reason: %s", event.Reason), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}
