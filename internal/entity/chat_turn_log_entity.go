package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurnLog struct {
	Id               uuid.UUID
	SessionId        string
	Route            string
	Source           string
	DetectedLanguage string
	RefinedQuery     string
	Translated       bool
	Fallbacks        []string
	DurationMs       int64
	CreatedAt        time.Time
}
