package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusbot-be/internal/repository/contract"
	"campusbot-be/pkg/llm"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "campusbot:session:"

// SessionRepository stores each history as a Redis list of JSON messages so
// several API replicas can share sessions.
type SessionRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(client goredis.UniversalClient, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(sessionId string) string {
	return keyPrefix + sessionId
}

func (r *SessionRepository) Get(ctx context.Context, sessionId string) ([]llm.Message, error) {
	raw, err := r.client.LRange(ctx, sessionKey(sessionId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrSessionStoreUnavailable, err)
	}

	history := make([]llm.Message, 0, len(raw))
	for _, item := range raw {
		var msg llm.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("%w: corrupt history entry: %v", contract.ErrSessionStoreUnavailable, err)
		}
		history = append(history, msg)
	}
	return history, nil
}

func (r *SessionRepository) Append(ctx context.Context, sessionId string, messages ...llm.Message) error {
	if len(messages) == 0 {
		return nil
	}

	values := make([]interface{}, len(messages))
	for i, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		values[i] = data
	}

	key := sessionKey(sessionId)
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", contract.ErrSessionStoreUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionId string) error {
	if err := r.client.Del(ctx, sessionKey(sessionId)).Err(); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrSessionStoreUnavailable, err)
	}
	return nil
}
