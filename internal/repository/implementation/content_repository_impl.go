package implementation

import (
	"context"
	"errors"

	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/mapper"
	"tg-content-bot/internal/model"
	"tg-content-bot/internal/repository/contract"
	"tg-content-bot/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewContentRepository(db *gorm.DB) contract.ContentRepository {
	return &ContentRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *ContentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContentRepositoryImpl) Create(ctx context.Context, content *entity.Content) error {
	m := r.mapper.ToModel(content)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*content = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContentRepositoryImpl) Update(ctx context.Context, content *entity.Content) error {
	m := r.mapper.ToModel(content)
	// Save skips nil fields on struct updates; body may legitimately go
	// from text to NULL, so update by column map instead.
	err := r.db.WithContext(ctx).Model(&model.Content{}).
		Where("id = ?", m.Id).
		Updates(map[string]interface{}{
			"parent_id":   m.ParentId,
			"title":       m.Title,
			"body":        m.Body,
			"ord":         m.Ord,
			"text_digest": m.TextDigest,
			"embedded_at": m.EmbeddedAt,
		}).Error
	return err
}

func (r *ContentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error) {
	var m model.Content
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error) {
	var rows []*model.Content
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *ContentRepositoryImpl) FindByNaturalKey(ctx context.Context, parentID *uuid.UUID, ord int) (*entity.Content, error) {
	return r.FindOne(ctx, specification.ByNaturalKey{ParentID: parentID, Ord: ord})
}

func (r *ContentRepositoryImpl) ListAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Content{}).Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ContentRepositoryImpl) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Content{}).Error
}

func (r *ContentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Content{}).Count(&count).Error
	return count, err
}
