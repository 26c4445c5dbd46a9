package implementation

import (
	"context"

	"campusbot-be/internal/entity"
	"campusbot-be/internal/mapper"
	"campusbot-be/internal/model"
	"campusbot-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) SearchNearest(ctx context.Context, embedding []float32, k int) ([]*entity.ScoredDocumentChunk, error) {
	if k <= 0 {
		k = 1
	}

	type result struct {
		model.DocumentChunk
		Distance float64
	}
	var results []result

	// pgvector L2 distance: embedding_value <-> vector
	queryVector := pgvector.NewVector(embedding)
	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, embedding_value <-> ? AS distance", queryVector).
		Where("deleted_at IS NULL").
		Order("distance ASC").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredDocumentChunk, len(results))
	for i := range results {
		scored[i] = &entity.ScoredDocumentChunk{
			Chunk:    r.mapper.ToEntity(&results[i].DocumentChunk),
			Distance: results[i].Distance,
		}
	}
	return scored, nil
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}
