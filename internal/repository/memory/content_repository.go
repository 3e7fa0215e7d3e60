// Package memory holds in-memory repository implementations. They back unit
// tests and local runs without Postgres; the gorm implementations stay the
// production path.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/repository/contract"
	"tg-content-bot/internal/repository/specification"

	"github.com/google/uuid"
)

type ContentRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Content
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{rows: make(map[uuid.UUID]*entity.Content)}
}

func (r *ContentRepository) Create(ctx context.Context, content *entity.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if content.Id == uuid.Nil {
		content.Id = uuid.New()
	}
	now := time.Now()
	content.CreatedAt = now
	content.UpdatedAt = now

	clone := *content
	r.rows[content.Id] = &clone
	return nil
}

func (r *ContentRepository) Update(ctx context.Context, content *entity.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	content.UpdatedAt = time.Now()
	clone := *content
	r.rows[content.Id] = &clone
	return nil
}

func (r *ContentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *ContentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Content
	for _, row := range r.rows {
		if matchesAll(row, specs) {
			clone := *row
			out = append(out, &clone)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if hasOrderBySiblingOrder(specs) && out[i].Ord != out[j].Ord {
			return out[i].Ord < out[j].Ord
		}
		return out[i].Id.String() < out[j].Id.String()
	})
	return out, nil
}

func (r *ContentRepository) FindByNaturalKey(ctx context.Context, parentID *uuid.UUID, ord int) (*entity.Content, error) {
	return r.FindOne(ctx, specification.ByNaturalKey{ParentID: parentID, Ord: ord})
}

func (r *ContentRepository) ListAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *ContentRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.rows, id)
	}
	return nil
}

func (r *ContentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

// matchesAll interprets the content specifications this package understands.
// Ordering specs are handled by FindAll, not here.
func matchesAll(row *entity.Content, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if row.Id != s.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range s.IDs {
				if row.Id == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.ByParentID:
			if !sameParent(row.ParentId, s.ParentID) {
				return false
			}
		case specification.ByNaturalKey:
			if !sameParent(row.ParentId, s.ParentID) || row.Ord != s.Ord {
				return false
			}
		case specification.OrderBySiblingOrder:
			// ordering only
		}
	}
	return true
}

func hasOrderBySiblingOrder(specs []specification.Specification) bool {
	for _, spec := range specs {
		if _, ok := spec.(specification.OrderBySiblingOrder); ok {
			return true
		}
	}
	return false
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

var _ contract.ContentRepository = (*ContentRepository)(nil)
