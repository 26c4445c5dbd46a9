package mapper

import (
	"encoding/json"

	"campusbot-be/internal/entity"
	"campusbot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatTurnLogMapper struct{}

func NewChatTurnLogMapper() *ChatTurnLogMapper {
	return &ChatTurnLogMapper{}
}

func (m *ChatTurnLogMapper) ToModel(l *entity.ChatTurnLog) *model.ChatTurnLog {
	if l == nil {
		return nil
	}

	fallbacks := l.Fallbacks
	if fallbacks == nil {
		fallbacks = []string{}
	}
	raw, _ := json.Marshal(fallbacks)

	return &model.ChatTurnLog{
		Id:               l.Id,
		SessionId:        l.SessionId,
		Route:            l.Route,
		Source:           l.Source,
		DetectedLanguage: l.DetectedLanguage,
		RefinedQuery:     l.RefinedQuery,
		Translated:       l.Translated,
		Fallbacks:        datatypes.JSON(raw),
		DurationMs:       l.DurationMs,
		CreatedAt:        l.CreatedAt,
	}
}

func (m *ChatTurnLogMapper) ToEntity(l *model.ChatTurnLog) *entity.ChatTurnLog {
	if l == nil {
		return nil
	}

	var fallbacks []string
	_ = json.Unmarshal(l.Fallbacks, &fallbacks)

	return &entity.ChatTurnLog{
		Id:               l.Id,
		SessionId:        l.SessionId,
		Route:            l.Route,
		Source:           l.Source,
		DetectedLanguage: l.DetectedLanguage,
		RefinedQuery:     l.RefinedQuery,
		Translated:       l.Translated,
		Fallbacks:        fallbacks,
		DurationMs:       l.DurationMs,
		CreatedAt:        l.CreatedAt,
	}
}
