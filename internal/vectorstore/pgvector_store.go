package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tg-content-bot/internal/model"
	"tg-content-bot/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	provisionAttempts = 15
	provisionBackoff  = 2 * time.Second
)

type PgVectorStore struct {
	db        *gorm.DB
	dimension int
	log       logger.ILogger
}

func NewPgVectorStore(db *gorm.DB, dimension int, log logger.ILogger) Store {
	return &PgVectorStore{
		db:        db,
		dimension: dimension,
		log:       log,
	}
}

func (s *PgVectorStore) Enabled() bool {
	return true
}

// EnsureCollection waits for the database with bounded fixed-backoff retries,
// then provisions the content_vectors table. An existing table is validated
// against the expected dimension and cosine index; only a mismatch triggers
// drop and recreate (which empties the index and lets the next sync pass
// force a full reindex).
func (s *PgVectorStore) EnsureCollection(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt < provisionAttempts; attempt++ {
		if lastErr = s.ping(ctx); lastErr == nil {
			break
		}
		s.log.Warn("vectorstore", "Database not ready, retrying", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		})
		select {
		case <-time.After(provisionBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return fmt.Errorf("database never became ready: %w", lastErr)
	}

	if err := s.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector extension: %w", err)
	}

	if s.db.WithContext(ctx).Migrator().HasTable(&model.ContentVector{}) {
		dim, err := s.columnDimension(ctx)
		if err != nil {
			return err
		}
		if dim == s.dimension {
			// Index creation below is idempotent; fall through.
			return s.ensureIndex(ctx)
		}
		s.log.Warn("vectorstore", "Vector dimension mismatch, recreating collection", map[string]interface{}{
			"have": dim,
			"want": s.dimension,
		})
		if err := s.db.WithContext(ctx).Migrator().DropTable(&model.ContentVector{}); err != nil {
			return fmt.Errorf("drop mismatched collection: %w", err)
		}
	}

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS content_vectors (
		id uuid PRIMARY KEY,
		embedding vector(%d) NOT NULL,
		title varchar(512) NOT NULL,
		has_body boolean NOT NULL DEFAULT false,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`, s.dimension)
	if err := s.db.WithContext(ctx).Exec(createSQL).Error; err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	s.log.Info("vectorstore", "Collection ready", map[string]interface{}{
		"dimension": s.dimension,
	})
	return s.ensureIndex(ctx)
}

func (s *PgVectorStore) ensureIndex(ctx context.Context) error {
	// Cosine distance is the configured metric; hnsw keeps search sublinear.
	return s.db.WithContext(ctx).Exec(
		"CREATE INDEX IF NOT EXISTS idx_content_vectors_embedding ON content_vectors USING hnsw (embedding vector_cosine_ops)",
	).Error
}

func (s *PgVectorStore) ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// columnDimension reads the declared dimension of the embedding column.
// For the vector type, atttypmod carries the dimension directly.
func (s *PgVectorStore) columnDimension(ctx context.Context) (int, error) {
	var dim int
	err := s.db.WithContext(ctx).Raw(
		`SELECT atttypmod FROM pg_attribute
		  WHERE attrelid = 'content_vectors'::regclass
		    AND attname = 'embedding'`,
	).Scan(&dim).Error
	if err != nil {
		return 0, fmt.Errorf("read collection dimension: %w", err)
	}
	return dim, nil
}

func (s *PgVectorStore) IsCollectionEmpty(ctx context.Context) bool {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&model.ContentVector{}).Limit(1).Pluck("id", &ids).Error
	if err == nil {
		return len(ids) == 0
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.ContentVector{}).Count(&count).Error; err != nil {
		s.log.Warn("vectorstore", "Emptiness probe failed, assuming not empty", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return count == 0
}

func (s *PgVectorStore) UpsertPoints(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	rows := make([]*model.ContentVector, len(points))
	for i, p := range points {
		rows[i] = &model.ContentVector{
			Id:        p.Id,
			Embedding: pgvector.NewVector(p.Vector),
			Title:     p.Title,
			HasBody:   p.HasBody,
		}
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "title", "has_body", "updated_at"}),
	}).Create(rows).Error
}

func (s *PgVectorStore) DeletePoints(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.ContentVector{}).Error
}

func (s *PgVectorStore) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}

	queryVector := pgvector.NewVector(vector)

	// Cosine distance in pgvector is 1 - cosine_similarity.
	var results []struct {
		Id    uuid.UUID
		Score float64
	}
	err := s.db.WithContext(ctx).
		Table("content_vectors").
		Select("id, 1 - (embedding <=> ?) as score", queryVector).
		Order("score DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{Id: r.Id, Score: r.Score}
	}
	return hits, nil
}

var ErrDisabled = errors.New("vector search is disabled")
