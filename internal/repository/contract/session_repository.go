package contract

import (
	"context"
	"errors"

	"campusbot-be/pkg/llm"
)

// ErrSessionStoreUnavailable is returned when history cannot be read or written.
var ErrSessionStoreUnavailable = errors.New("session store unavailable")

// SessionRepository keeps the ordered message history of each session.
// An unknown session has an empty history.
type SessionRepository interface {
	Get(ctx context.Context, sessionId string) ([]llm.Message, error)
	// Append stores all messages or none of them.
	Append(ctx context.Context, sessionId string, messages ...llm.Message) error
	Delete(ctx context.Context, sessionId string) error
}
