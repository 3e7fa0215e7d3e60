package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/model"
	"tg-content-bot/internal/repository/unitofwork"
	"tg-content-bot/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormContentPersistence(t *testing.T) {
	// Load .env from root
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

	// Self-provision the relational schema so the test runs against a
	// fresh database.
	require.NoError(t, gormDB.AutoMigrate(&model.Content{}, &model.KVEntry{}))

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ContentRepository())
	assert.NotNil(t, uow.KVRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	ctx := context.Background()
	repo := uow.ContentRepository()

	var created []uuid.UUID
	defer func() {
		assert.NoError(t, repo.DeleteByIDs(context.Background(), created))
	}()

	body := "Paris is the capital."
	root := &entity.Content{Title: "Integration Europe", Ord: 7001, TextDigest: "d1"}
	require.NoError(t, repo.Create(ctx, root))
	created = append(created, root.Id)

	child := &entity.Content{ParentId: &root.Id, Title: "Integration France", Body: &body, Ord: 0, TextDigest: "d2"}
	require.NoError(t, repo.Create(ctx, child))
	created = append(created, child.Id)

	t.Run("Check Natural Key Lookup With Nil Parent", func(t *testing.T) {
		// Exercises the parent_id IS NOT DISTINCT FROM predicate: a plain
		// "= NULL" comparison would never match the root.
		row, err := repo.FindByNaturalKey(ctx, nil, 7001)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, root.Id, row.Id)

		miss, err := repo.FindByNaturalKey(ctx, nil, 7002)
		require.NoError(t, err)
		assert.Nil(t, miss)
	})

	t.Run("Check Natural Key Lookup With Parent", func(t *testing.T) {
		row, err := repo.FindByNaturalKey(ctx, &root.Id, 0)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, child.Id, row.Id)
		assert.Equal(t, "Paris is the capital.", row.BodyText())
	})

	t.Run("Check Update Clears Body To NULL", func(t *testing.T) {
		// Updates go through a column map, so a nil body must actually
		// reach the database instead of being skipped.
		child.Body = nil
		child.TextDigest = "d3"
		require.NoError(t, repo.Update(ctx, child))

		row, err := repo.FindByNaturalKey(ctx, &root.Id, 0)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Nil(t, row.Body)
		assert.Equal(t, "d3", row.TextDigest)
	})

	t.Run("Check KV Upsert", func(t *testing.T) {
		key := "integration_test_" + uuid.New().String()
		defer func() {
			assert.NoError(t, gormDB.Exec("DELETE FROM kv WHERE key = ?", key).Error)
		}()

		kv := uow.KVRepository()

		missing, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "", missing)

		require.NoError(t, kv.Set(ctx, key, "rev-1"))
		require.NoError(t, kv.Set(ctx, key, "rev-2"))

		got, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "rev-2", got, "second Set must overwrite via ON CONFLICT")
	})
}
