package memory

import (
	"context"
	"sync"
	"time"

	"campusbot-be/internal/repository/contract"
	"campusbot-be/pkg/llm"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionRepository keeps histories in process, bounded by session count
// and idle time. The least recently used session is evicted first.
type SessionRepository struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, []llm.Message]
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(capacity int, ttl time.Duration) *SessionRepository {
	if capacity <= 0 {
		capacity = 10000
	}
	return &SessionRepository{
		cache: expirable.NewLRU[string, []llm.Message](capacity, nil, ttl),
	}
}

func (r *SessionRepository) Get(ctx context.Context, sessionId string) ([]llm.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history, ok := r.cache.Get(sessionId)
	if !ok {
		return []llm.Message{}, nil
	}
	out := make([]llm.Message, len(history))
	copy(out, history)
	return out, nil
}

func (r *SessionRepository) Append(ctx context.Context, sessionId string, messages ...llm.Message) error {
	if len(messages) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history, _ := r.cache.Get(sessionId)
	next := make([]llm.Message, 0, len(history)+len(messages))
	next = append(next, history...)
	next = append(next, messages...)
	// Add refreshes the TTL, so active sessions stay alive.
	r.cache.Add(sessionId, next)
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Remove(sessionId)
	return nil
}

func (r *SessionRepository) Len() int {
	return r.cache.Len()
}
