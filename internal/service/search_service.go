package service

import (
	"context"
	"fmt"

	"tg-content-bot/internal/dto"
	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/repository/specification"
	"tg-content-bot/internal/repository/unitofwork"
	"tg-content-bot/internal/vectorstore"
	"tg-content-bot/pkg/embedding"

	"github.com/google/uuid"
)

type ISearchService interface {
	// Search embeds the query and resolves the nearest vector points back
	// to content rows, most relevant first.
	Search(ctx context.Context, query string, topK int) ([]*dto.SearchResultResponse, error)
}

type searchService struct {
	uowFactory unitofwork.RepositoryFactory
	vectors    vectorstore.Store
	embedder   embedding.EmbeddingProvider
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	vectors vectorstore.Store,
	embedder embedding.EmbeddingProvider,
) ISearchService {
	return &searchService{
		uowFactory: uowFactory,
		vectors:    vectors,
		embedder:   embedder,
	}
}

func (s *searchService) Search(ctx context.Context, query string, topK int) ([]*dto.SearchResultResponse, error) {
	if !s.vectors.Enabled() {
		return nil, vectorstore.ErrDisabled
	}
	if topK <= 0 {
		topK = 2
	}

	embeddingRes, err := s.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectors.Search(ctx, embeddingRes.Embedding.Values, topK)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []*dto.SearchResultResponse{}, nil
	}

	ids := make([]uuid.UUID, len(hits))
	for i, hit := range hits {
		ids[i] = hit.Id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ContentRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Content, len(rows))
	for _, row := range rows {
		byID[row.Id] = row
	}

	// Preserve hit order; a point whose row vanished mid-pass is skipped.
	results := make([]*dto.SearchResultResponse, 0, len(hits))
	for _, hit := range hits {
		row, ok := byID[hit.Id]
		if !ok {
			continue
		}
		results = append(results, &dto.SearchResultResponse{
			Id:             row.Id,
			ParentId:       row.ParentId,
			Title:          row.Title,
			Body:           row.Body,
			RelevanceScore: hit.Score,
		})
	}
	return results, nil
}
