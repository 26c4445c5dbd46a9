package contract

import (
	"context"

	"campusbot-be/internal/entity"
)

type ChatTurnLogRepository interface {
	Create(ctx context.Context, log *entity.ChatTurnLog) error
}
