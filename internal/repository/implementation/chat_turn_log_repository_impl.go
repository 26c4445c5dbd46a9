package implementation

import (
	"context"

	"campusbot-be/internal/entity"
	"campusbot-be/internal/mapper"
	"campusbot-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ChatTurnLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatTurnLogMapper
}

func NewChatTurnLogRepository(db *gorm.DB) contract.ChatTurnLogRepository {
	return &ChatTurnLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatTurnLogMapper(),
	}
}

func (r *ChatTurnLogRepositoryImpl) Create(ctx context.Context, log *entity.ChatTurnLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}
