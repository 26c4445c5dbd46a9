package contract

import (
	"context"

	"campusbot-be/internal/entity"
)

type DocumentChunkRepository interface {
	// SearchNearest returns up to k chunks ordered by ascending L2 distance.
	SearchNearest(ctx context.Context, embedding []float32, k int) ([]*entity.ScoredDocumentChunk, error)
	Count(ctx context.Context) (int64, error)
}
