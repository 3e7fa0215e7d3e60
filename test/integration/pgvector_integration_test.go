package integration

import (
	"context"
	"log"
	"os"
	"strconv"
	"testing"

	"tg-content-bot/internal/pkg/logger"
	"tg-content-bot/internal/vectorstore"
	"tg-content-bot/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitVector returns a dim-length vector with a single 1 at axis.
func unitVector(dim, axis int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1
	return v
}

func TestPgVectorStoreProvisioningAndSearch(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	ctx := context.Background()
	nop := logger.NewNopLogger()

	defer func() {
		// Leave the collection in the configured shape for whatever runs
		// next against this database.
		dim := 768
		if raw := os.Getenv("VECTOR_DIMENSION"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				dim = parsed
			}
		}
		restore := vectorstore.NewPgVectorStore(gormDB, dim, nop)
		assert.NoError(t, restore.EnsureCollection(context.Background()))
	}()

	store := vectorstore.NewPgVectorStore(gormDB, 8, nop)

	t.Run("Check Provisioning Is Idempotent", func(t *testing.T) {
		require.NoError(t, store.EnsureCollection(ctx))
		require.NoError(t, store.EnsureCollection(ctx))
	})

	t.Run("Check Dimension Mismatch Recreates Collection", func(t *testing.T) {
		require.NoError(t, store.UpsertPoints(ctx, []vectorstore.Point{
			{Id: uuid.New(), Vector: unitVector(8, 0), Title: "pre-recreate"},
		}))
		assert.False(t, store.IsCollectionEmpty(ctx))

		// A different configured dimension must drop and recreate the
		// table, leaving it empty for the forced reindex.
		wider := vectorstore.NewPgVectorStore(gormDB, 12, nop)
		require.NoError(t, wider.EnsureCollection(ctx))
		assert.True(t, wider.IsCollectionEmpty(ctx))

		// Back to 8 for the remaining subtests.
		require.NoError(t, store.EnsureCollection(ctx))
		assert.True(t, store.IsCollectionEmpty(ctx))
	})

	t.Run("Check Upsert Search Delete Roundtrip", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		points := []vectorstore.Point{
			{Id: first, Vector: unitVector(8, 0), Title: "First", HasBody: true},
			{Id: second, Vector: unitVector(8, 1), Title: "Second"},
		}
		require.NoError(t, store.UpsertPoints(ctx, points))
		assert.False(t, store.IsCollectionEmpty(ctx))

		// Re-upsert under the same id must conflict-update, not duplicate.
		require.NoError(t, store.UpsertPoints(ctx, []vectorstore.Point{
			{Id: first, Vector: unitVector(8, 0), Title: "First Again", HasBody: true},
		}))

		hits, err := store.Search(ctx, unitVector(8, 0), 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, first, hits[0].Id, "identical vector must rank first")
		assert.InDelta(t, 1.0, hits[0].Score, 0.001)
		assert.Equal(t, second, hits[1].Id)
		assert.InDelta(t, 0.0, hits[1].Score, 0.001, "orthogonal vector has zero cosine similarity")

		require.NoError(t, store.DeletePoints(ctx, []uuid.UUID{first, second}))
		assert.True(t, store.IsCollectionEmpty(ctx))
	})
}
