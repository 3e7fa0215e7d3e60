// Package vectorstore wraps the derived vector index behind a small
// capability interface. The pgvector implementation is the real index; the
// no-op implementation is selected once at construction time when vector
// search is disabled, so call sites never branch on a feature flag.
package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

// Point is one indexed vector. Id equals the content row's surrogate id,
// which is the join key between the relational store and the index.
type Point struct {
	Id      uuid.UUID
	Vector  []float32
	Title   string
	HasBody bool
}

// Hit is one similarity search result, score in [0,1] (1 = identical).
type Hit struct {
	Id    uuid.UUID
	Score float64
}

type Store interface {
	// Enabled reports whether the store performs real vector operations.
	Enabled() bool
	// EnsureCollection provisions the index idempotently: create when
	// absent, validate the vector schema when present, drop and recreate
	// only on mismatch.
	EnsureCollection(ctx context.Context) error
	// IsCollectionEmpty is best-effort. A failed probe reports "not
	// empty" so an outage never forces a spurious full reindex.
	IsCollectionEmpty(ctx context.Context) bool
	UpsertPoints(ctx context.Context, points []Point) error
	DeletePoints(ctx context.Context, ids []uuid.UUID) error
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
}
