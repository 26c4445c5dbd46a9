package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTurnLog struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId        string         `gorm:"type:varchar(128);not null;index"`
	Route            string         `gorm:"type:varchar(32);not null;index"`
	Source           string         `gorm:"type:varchar(32);not null"`
	DetectedLanguage string         `gorm:"type:varchar(35)"`
	RefinedQuery     string         `gorm:"type:text"`
	Translated       bool           `gorm:"default:false"`
	Fallbacks        datatypes.JSON `gorm:"type:jsonb"`
	DurationMs       int64
	CreatedAt        time.Time `gorm:"default:now();not null;index"`
}

func (ChatTurnLog) TableName() string {
	return "chat_turn_logs"
}
