package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"

	"github.com/matchpoint-club/matchpoint/internal/notifier"
)

type client struct {
	client *pubsub.Client
	mu     sync.Mutex
	topics map[EventType]*pubsub.Topic
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchConfirmed   EventType = "match-confirmed"
	EventMatchRescheduled EventType = "match-rescheduled"
	EventMatchCancelled   EventType = "match-cancelled"
)

// MatchMessage is the payload published for match lifecycle events and decoded
// by the push-subscription handler.
type MatchMessage struct {
	Kind  EventType           `msgpack:"kind"`
	Event notifier.MatchEvent `msgpack:"event"`
}
