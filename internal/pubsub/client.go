package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func New(projectID string) PubSubClient {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	return &client{
		client: pubSubC,
		topics: make(map[EventType]*pubsub.Topic),
	}
}

// topicFor caches topic handles; a pubsub.Topic spawns publisher goroutines,
// so one handle per event type lives for the rest of the process.
func (c *client) topicFor(kind EventType) *pubsub.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.topics[kind]
	if !ok {
		t = c.client.Topic(string(kind))
		c.topics[kind] = t
	}
	return t
}

func (c *client) SendMessage(topic EventType, data any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	result := c.topicFor(topic).Publish(ctx, &pubsub.Message{Data: msgpackData})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	log.Info("Published match event", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	// Unmarshal the MessagePack data into the provided pointer struct
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
