package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id             uuid.UUID
	Content        string
	Source         string
	ChunkIndex     int
	Metadata       map[string]interface{}
	EmbeddingValue []float32
	CreatedAt      time.Time
}

// ScoredDocumentChunk is a nearest-neighbour hit with its L2 distance.
type ScoredDocumentChunk struct {
	Chunk    *DocumentChunk
	Distance float64
}
