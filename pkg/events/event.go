package events

import "time"

// Event is anything published on the audit bus.
type Event interface {
	// EventType is the subject suffix, e.g. "CHAT_TURN_COMPLETED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}
