package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"campusbot-be/internal/repository/contract"
	"campusbot-be/pkg/llm"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryUnavailable(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, contract.ErrSessionStoreUnavailable)

	err = repo.Append(ctx, "s1", llm.Message{Role: llm.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, contract.ErrSessionStoreUnavailable)

	assert.ErrorIs(t, repo.Delete(ctx, "s1"), contract.ErrSessionStoreUnavailable)
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}
	opt, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opt)
	defer client.Close()

	repo := NewSessionRepository(client, time.Minute)
	ctx := context.Background()
	id := "test-" + uuid.NewString()
	defer repo.Delete(ctx, id)

	require.NoError(t, repo.Append(ctx, id,
		llm.Message{Role: llm.RoleUser, Content: "Who handles hostel allotment?"},
		llm.Message{Role: llm.RoleAssistant, Content: "The Hostel Office."},
	))

	history, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, llm.RoleAssistant, history[1].Role)

	ttl, err := client.TTL(ctx, sessionKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
