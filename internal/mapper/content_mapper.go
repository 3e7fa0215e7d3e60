package mapper

import (
	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/model"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

func (m *ContentMapper) ToEntity(c *model.Content) *entity.Content {
	if c == nil {
		return nil
	}

	return &entity.Content{
		Id:         c.Id,
		ParentId:   c.ParentId,
		Title:      c.Title,
		Body:       c.Body,
		Ord:        c.Ord,
		TextDigest: c.TextDigest,
		EmbeddedAt: c.EmbeddedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (m *ContentMapper) ToModel(c *entity.Content) *model.Content {
	if c == nil {
		return nil
	}

	return &model.Content{
		Id:         c.Id,
		ParentId:   c.ParentId,
		Title:      c.Title,
		Body:       c.Body,
		Ord:        c.Ord,
		TextDigest: c.TextDigest,
		EmbeddedAt: c.EmbeddedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (m *ContentMapper) ToEntities(rows []*model.Content) []*entity.Content {
	entities := make([]*entity.Content, len(rows))
	for i, c := range rows {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
