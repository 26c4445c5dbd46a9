package implementation

import (
	"context"
	"os"
	"testing"

	"campusbot-be/internal/entity"
	"campusbot-be/internal/model"
	"campusbot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error)
	require.NoError(t, db.AutoMigrate(&model.DocumentChunk{}, &model.ChatTurnLog{}))
	return db
}

func unitVector(hot int) []float32 {
	v := make([]float32, 768)
	v[hot] = 1
	return v
}

func TestDocumentChunkRepositorySearchNearest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	source := "integration-" + uuid.NewString()

	rows := []*model.DocumentChunk{
		{Id: uuid.New(), Content: "fee deadline", Source: source, EmbeddingValue: pgvector.NewVector(unitVector(0))},
		{Id: uuid.New(), Content: "library hours", Source: source, EmbeddingValue: pgvector.NewVector(unitVector(1))},
	}
	require.NoError(t, db.Create(rows).Error)
	t.Cleanup(func() { db.Unscoped().Where("source = ?", source).Delete(&model.DocumentChunk{}) })

	repo := NewDocumentChunkRepository(db)

	hits, err := repo.SearchNearest(ctx, unitVector(0), 2)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "fee deadline", hits[0].Chunk.Content)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.Len(t, hits[0].Chunk.EmbeddingValue, 768)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(2))
}

func TestChatTurnLogRepositoryCreate(t *testing.T) {
	db := openTestDB(t)
	repo := NewChatTurnLogRepository(db)

	log := &entity.ChatTurnLog{
		SessionId: "integration-" + uuid.NewString(),
		Route:     "ContactLookup",
		Source:    "External Help",
		Fallbacks: []string{"router"},
	}
	require.NoError(t, repo.Create(context.Background(), log))
	t.Cleanup(func() { db.Where("session_id = ?", log.SessionId).Delete(&model.ChatTurnLog{}) })

	assert.NotEqual(t, uuid.Nil, log.Id)
	assert.Equal(t, []string{"router"}, log.Fallbacks)
}
