package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

// NoopStore is the disabled-mode implementation: the sync pipeline runs in
// relational-store-only mode and every vector operation is a cheap no-op.
type NoopStore struct{}

func NewNoopStore() Store {
	return &NoopStore{}
}

func (s *NoopStore) Enabled() bool {
	return false
}

func (s *NoopStore) EnsureCollection(ctx context.Context) error {
	return nil
}

// IsCollectionEmpty reports "not empty" so the orchestrator never schedules
// a forced reindex while vector search is off.
func (s *NoopStore) IsCollectionEmpty(ctx context.Context) bool {
	return false
}

func (s *NoopStore) UpsertPoints(ctx context.Context, points []Point) error {
	return nil
}

func (s *NoopStore) DeletePoints(ctx context.Context, ids []uuid.UUID) error {
	return nil
}

func (s *NoopStore) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	return nil, ErrDisabled
}
