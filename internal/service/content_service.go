package service

import (
	"context"
	"fmt"
	"time"

	"tg-content-bot/internal/dto"
	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/repository/specification"
	"tg-content-bot/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const rootCacheKey = "children:root"

type IContentService interface {
	GetContent(ctx context.Context, id uuid.UUID) (*dto.ContentDetailResponse, error)
	// GetChildren returns the ordered children of parentID; nil lists the
	// top-level nodes.
	GetChildren(ctx context.Context, parentID *uuid.UUID) ([]*dto.ContentResponse, error)
	// GetBreadcrumb returns the chain from root to id, inclusive.
	GetBreadcrumb(ctx context.Context, id uuid.UUID) ([]*dto.ContentResponse, error)
	// Invalidate drops every cached read after a sync pass touches the tree.
	Invalidate()
}

type contentService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewContentService(uowFactory unitofwork.RepositoryFactory) IContentService {
	return &contentService{
		uowFactory: uowFactory,
		// Sync passes invalidate explicitly; the TTL only caps staleness if
		// an invalidation is ever missed.
		cache: cache.New(10*time.Minute, 30*time.Minute),
	}
}

func (c *contentService) GetContent(ctx context.Context, id uuid.UUID) (*dto.ContentDetailResponse, error) {
	cacheKey := "content:" + id.String()
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*dto.ContentDetailResponse), nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.ContentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	chain, err := c.breadcrumbFor(ctx, uow, row)
	if err != nil {
		return nil, err
	}

	breadcrumb := make([]dto.ContentResponse, len(chain))
	for i, item := range chain {
		breadcrumb[i] = *toContentResponse(item)
	}

	res := &dto.ContentDetailResponse{
		Id:         row.Id,
		ParentId:   row.ParentId,
		Title:      row.Title,
		Body:       row.Body,
		Ord:        row.Ord,
		Breadcrumb: breadcrumb,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	c.cache.Set(cacheKey, res, cache.DefaultExpiration)
	return res, nil
}

func (c *contentService) GetChildren(ctx context.Context, parentID *uuid.UUID) ([]*dto.ContentResponse, error) {
	cacheKey := rootCacheKey
	if parentID != nil {
		cacheKey = "children:" + parentID.String()
	}
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]*dto.ContentResponse), nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ContentRepository().FindAll(ctx,
		specification.ByParentID{ParentID: parentID},
		specification.OrderBySiblingOrder{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ContentResponse, len(rows))
	for i, row := range rows {
		res[i] = toContentResponse(row)
	}
	c.cache.Set(cacheKey, res, cache.DefaultExpiration)
	return res, nil
}

func (c *contentService) GetBreadcrumb(ctx context.Context, id uuid.UUID) ([]*dto.ContentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.ContentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	chain, err := c.breadcrumbFor(ctx, uow, row)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ContentResponse, len(chain))
	for i, item := range chain {
		res[i] = toContentResponse(item)
	}
	return res, nil
}

// breadcrumbFor walks parent links up from row and reverses into
// root-first order. A dangling parent reference ends the walk instead of
// failing: the tree may be mid-sync. The visited set ends the walk on a
// cyclic parent chain for the same reason.
func (c *contentService) breadcrumbFor(ctx context.Context, uow unitofwork.UnitOfWork, row *entity.Content) ([]*entity.Content, error) {
	chain := []*entity.Content{row}
	visited := map[uuid.UUID]struct{}{row.Id: {}}

	currentParent := row.ParentId
	for currentParent != nil {
		if _, seen := visited[*currentParent]; seen {
			break
		}
		parent, err := uow.ContentRepository().FindOne(ctx, specification.ByID{ID: *currentParent})
		if err != nil {
			return nil, fmt.Errorf("walk breadcrumb: %w", err)
		}
		if parent == nil {
			break
		}
		chain = append(chain, parent)
		visited[parent.Id] = struct{}{}
		currentParent = parent.ParentId
	}

	// Reverse to root-first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (c *contentService) Invalidate() {
	c.cache.Flush()
}

func toContentResponse(row *entity.Content) *dto.ContentResponse {
	return &dto.ContentResponse{
		Id:       row.Id,
		ParentId: row.ParentId,
		Title:    row.Title,
		Body:     row.Body,
		Ord:      row.Ord,
	}
}
