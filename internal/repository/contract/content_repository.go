package contract

import (
	"context"

	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/repository/specification"

	"github.com/google/uuid"
)

type ContentRepository interface {
	Create(ctx context.Context, content *entity.Content) error
	Update(ctx context.Context, content *entity.Content) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error)
	// FindByNaturalKey looks a row up by its reconciliation identity
	// (parent_id, ord). Returns nil when no row sits at that position.
	FindByNaturalKey(ctx context.Context, parentID *uuid.UUID, ord int) (*entity.Content, error)
	// ListAllIDs is the full id scan backing orphan detection.
	ListAllIDs(ctx context.Context) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
