package events

import "time"

const ChatTurnCompletedType = "CHAT_TURN_COMPLETED"

// ChatTurnCompleted describes one answered turn. It carries no query or
// answer text.
type ChatTurnCompleted struct {
	SessionID        string    `json:"session_id"`
	Route            string    `json:"route"`
	Source           string    `json:"source"`
	DetectedLanguage string    `json:"detected_language"`
	RefinedQuery     string    `json:"refined_query"`
	Translated       bool      `json:"translated"`
	Fallbacks        []string  `json:"fallbacks"`
	DurationMs       int64     `json:"duration_ms"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func (e ChatTurnCompleted) EventType() string {
	return ChatTurnCompletedType
}

func (e ChatTurnCompleted) Payload() map[string]interface{} {
	fallbacks := e.Fallbacks
	if fallbacks == nil {
		fallbacks = []string{}
	}
	return map[string]interface{}{
		"session_id":        e.SessionID,
		"route":             e.Route,
		"source":            e.Source,
		"detected_language": e.DetectedLanguage,
		"refined_query":     e.RefinedQuery,
		"translated":        e.Translated,
		"fallbacks":         fallbacks,
		"duration_ms":       e.DurationMs,
		"occurred_at":       e.OccurredAt.Format(time.RFC3339Nano),
	}
}

func (e ChatTurnCompleted) Timestamp() time.Time {
	return e.OccurredAt
}
