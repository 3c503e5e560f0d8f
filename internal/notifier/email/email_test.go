package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchpoint-club/matchpoint/internal/metrics"
	"github.com/matchpoint-club/matchpoint/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

// mockMailClient is a mock implementation of the parts of the mail.Client that we use.
type mockMailClient struct {
	dialAndSendFunc func(ctx context.Context, messages ...*mail.Msg) error
	sent            []*mail.Msg
}

func (m *mockMailClient) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	m.sent = append(m.sent, messages...)
	if m.dialAndSendFunc != nil {
		return m.dialAndSendFunc(ctx, messages...)
	}
	return nil
}

func testEvent() *notifier.MatchEvent {
	return &notifier.MatchEvent{
		MatchID:    "m1",
		LadderName: "Ladder 1",
		StartAt:    time.Date(2025, 7, 9, 20, 0, 0, 0, time.UTC).Unix(),
		Team1Names: []string{"Player A", "Player B"},
		Team2Names: []string{"Player C", "Player D"},
		Recipients: []notifier.Recipient{
			{Name: "Player A", Email: "a@example.com", NotifyEmail: true},
			{Name: "Player B", Email: "b@example.com", NotifyEmail: false},
			{Name: "Player C", Email: "", NotifyEmail: true},
			{Name: "Player D", Email: "d@example.com", NotifyEmail: true},
		},
	}
}

func TestSend_DryRun(t *testing.T) {
	// Pass nil for the client, as it shouldn't be called in dry-run mode.
	n := NewNotifierWithClient(nil, "club@example.com", metrics.NewMock())

	err := n.send("a@example.com", "subject", "body", true)
	require.NoError(t, err)
}

func TestSend_Success(t *testing.T) {
	client := &mockMailClient{}
	m := metrics.NewMock()
	n := NewNotifierWithClient(client, "club@example.com", m)

	err := n.send("a@example.com", "subject", "body", false)
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Equal(t, 1, m.EmailSent())
	assert.Equal(t, 0, m.EmailFailed())
}

func TestSend_Failure(t *testing.T) {
	expectedErr := errors.New("smtp is down")
	client := &mockMailClient{
		dialAndSendFunc: func(ctx context.Context, messages ...*mail.Msg) error {
			return expectedErr
		},
	}
	m := metrics.NewMock()
	n := NewNotifierWithClient(client, "club@example.com", m)

	err := n.send("a@example.com", "subject", "body", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, m.EmailSent())
	assert.Equal(t, 1, m.EmailFailed())
}

func TestSendMatchConfirmed_RespectsOptOut(t *testing.T) {
	client := &mockMailClient{}
	m := metrics.NewMock()
	n := NewNotifierWithClient(client, "club@example.com", m)

	err := n.SendMatchConfirmed(testEvent(), false)
	require.NoError(t, err)

	// Player B opted out and Player C has no address; only A and D get mail.
	require.Len(t, client.sent, 2)
	assert.Equal(t, 2, m.EmailSent())
}

func TestSendMatchCancelled_IncludesReason(t *testing.T) {
	client := &mockMailClient{}
	n := NewNotifierWithClient(client, "club@example.com", metrics.NewMock())

	event := testEvent()
	event.Reason = "rain"

	err := n.SendMatchCancelled(event, false)
	require.NoError(t, err)
	require.NotEmpty(t, client.sent)

	assert.Contains(t, msgBody(t, client.sent[0]), "Reason: rain")
}

func TestSendVerificationEmail(t *testing.T) {
	client := &mockMailClient{}
	n := NewNotifierWithClient(client, "club@example.com", metrics.NewMock())

	err := n.SendVerificationEmail("Player A", "a@example.com", "https://example.com/verify?token=abc", false)
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	assert.Contains(t, msgBody(t, client.sent[0]), "https://example.com/verify?token=abc")
}

// msgBody extracts the plain-text body of a message.
func msgBody(t *testing.T, msg *mail.Msg) string {
	t.Helper()
	parts := msg.GetParts()
	require.NotEmpty(t, parts)
	content, err := parts[0].GetContent()
	require.NoError(t, err)
	return string(content)
}
