package service

import (
	"context"
	"fmt"

	"campusbot-be/internal/repository/contract"
	"campusbot-be/pkg/assistant"
	"campusbot-be/pkg/embedding"
)

// QueryEmbedder adapts an embedding provider to assistant.Embedder.
type QueryEmbedder struct {
	provider embedding.EmbeddingProvider
}

func NewQueryEmbedder(provider embedding.EmbeddingProvider) *QueryEmbedder {
	return &QueryEmbedder{provider: provider}
}

func (e *QueryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.provider.Generate(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding provider returned no values")
	}
	return res.Embedding.Values, nil
}

// ChunkIndex adapts the pgvector chunk repository to assistant.VectorIndex.
// Scores are L2 distances.
type ChunkIndex struct {
	repo contract.DocumentChunkRepository
}

func NewChunkIndex(repo contract.DocumentChunkRepository) *ChunkIndex {
	return &ChunkIndex{repo: repo}
}

func (i *ChunkIndex) Search(ctx context.Context, vector []float32, k int) ([]assistant.Match, error) {
	hits, err := i.repo.SearchNearest(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]assistant.Match, 0, len(hits))
	for _, h := range hits {
		if h == nil || h.Chunk == nil {
			continue
		}
		matches = append(matches, assistant.Match{
			Content:   h.Chunk.Content,
			Source:    h.Chunk.Source,
			Score:     h.Distance,
			Embedding: h.Chunk.EmbeddingValue,
		})
	}
	return matches, nil
}
