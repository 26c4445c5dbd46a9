package nats

import (
	"context"
	"os"
	"testing"
	"time"

	"campusbot-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.CHAT_TURN_COMPLETED", Subject(events.ChatTurnCompleted{}))
}

func TestPublisherPublish(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("Skipping integration test: NATS_URL not set")
	}

	pub, err := NewPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = pub.Publish(ctx, events.ChatTurnCompleted{
		SessionID:  "integration",
		Route:      "Conversation",
		Source:     "General",
		OccurredAt: time.Now(),
	})
	assert.NoError(t, err)
}
