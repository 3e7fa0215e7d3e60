package service

import (
	"context"
	"fmt"
	"time"

	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/pkg/logger"
	"tg-content-bot/internal/repository/contract"
	"tg-content-bot/internal/repository/unitofwork"
	"tg-content-bot/internal/vectorstore"
	"tg-content-bot/pkg/digest"
	"tg-content-bot/pkg/docsource"
	"tg-content-bot/pkg/doctree"
	"tg-content-bot/pkg/embedding"

	"github.com/google/uuid"
)

// neverSeenRevision overrides the stored token when the vector index turns
// up empty, guaranteeing the revision check cannot skip the pass that would
// repopulate it.
const neverSeenRevision = "never_seen_revision"

type ISyncService interface {
	// RunOnce drives one full reconciliation pass:
	// fetch → revision check → parse → upsert walk → orphan deletion →
	// batched embedding. Passes are not concurrent; the caller serialises
	// invocations.
	RunOnce(ctx context.Context) (*entity.SyncStats, error)
}

// CacheInvalidator is notified after a pass that touched the store, so read
// caches never serve rows from before the sync.
type CacheInvalidator interface {
	Invalidate()
}

type syncService struct {
	uowFactory  unitofwork.RepositoryFactory
	source      docsource.DocumentSource
	vectors     vectorstore.Store
	embedder    embedding.EmbeddingProvider
	docID       string
	invalidator CacheInvalidator
	log         logger.ILogger
}

func NewSyncService(
	uowFactory unitofwork.RepositoryFactory,
	source docsource.DocumentSource,
	vectors vectorstore.Store,
	embedder embedding.EmbeddingProvider,
	docID string,
	invalidator CacheInvalidator,
	log logger.ILogger,
) ISyncService {
	return &syncService{
		uowFactory:  uowFactory,
		source:      source,
		vectors:     vectors,
		embedder:    embedder,
		docID:       docID,
		invalidator: invalidator,
		log:         log,
	}
}

func (s *syncService) RunOnce(ctx context.Context) (*entity.SyncStats, error) {
	stats := &entity.SyncStats{}

	// FETCHING: abort before any mutation on failure.
	raw, newRev, err := s.source.Fetch(ctx, s.docID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// REVISION_CHECK
	prevRev, err := uow.KVRepository().Get(ctx, contract.DocRevisionKey)
	if err != nil {
		return nil, fmt.Errorf("load stored revision: %w", err)
	}

	forceReembed := false
	if s.vectors.Enabled() && s.vectors.IsCollectionEmpty(ctx) {
		s.log.Warn("sync", "Empty vector collection detected, forcing full re-index", nil)
		prevRev = neverSeenRevision
		forceReembed = true
	}

	if newRev == prevRev {
		s.log.Info("sync", "Document revision unchanged, skipping synchronisation", map[string]interface{}{
			"revision": newRev,
		})
		return stats, nil
	}

	// SYNCING. The revision is written before any structural change: if the
	// process dies mid-pass, the next run treats this revision as done
	// instead of retrying a possibly poisoned document forever. The store
	// may stay partially updated until the next document edit or forced
	// reindex; that tradeoff is deliberate.
	if err := uow.KVRepository().Set(ctx, contract.DocRevisionKey, newRev); err != nil {
		return nil, fmt.Errorf("store new revision: %w", err)
	}

	nodes := doctree.Parse(raw)
	s.log.Info("sync", "Document parsed", map[string]interface{}{
		"top_level_nodes": len(nodes),
	})

	seen := make(map[uuid.UUID]struct{})
	var candidates []entity.EmbedCandidate

	for idx, root := range nodes {
		if err := s.walkAndUpsert(ctx, uow, nil, root, idx, forceReembed, seen, &candidates, stats); err != nil {
			return nil, err
		}
	}

	// DELETING_ORPHANS: anything persisted but unseen this pass no longer
	// exists in the document.
	if err := s.deleteOrphans(ctx, uow, seen, stats); err != nil {
		return nil, err
	}

	// EMBEDDING: one batched call for the whole pass.
	if err := s.embedCandidates(ctx, candidates, stats); err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}

	s.log.Info("sync", "Synchronisation pass complete", map[string]interface{}{
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"moved":    stats.Moved,
		"deleted":  stats.Deleted,
		"embedded": stats.Embedded,
	})
	return stats, nil
}

// walkAndUpsert reconciles one node and recurses depth-first, pre-order.
// Children's natural keys are scoped by the parent's surrogate id, which is
// only known once the parent row exists, so the traversal is inherently
// sequential.
func (s *syncService) walkAndUpsert(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	parentID *uuid.UUID,
	node *doctree.Node,
	ord int,
	forceReembed bool,
	seen map[uuid.UUID]struct{},
	candidates *[]entity.EmbedCandidate,
	stats *entity.SyncStats,
) error {
	id, needEmbedding, isNew, contentChanged, err := s.upsertNode(ctx, uow.ContentRepository(), parentID, ord, node, forceReembed, stats)
	if err != nil {
		return err
	}

	if isNew {
		stats.Inserted++
	}
	if contentChanged {
		stats.Updated++
	}
	if needEmbedding {
		*candidates = append(*candidates, entity.EmbedCandidate{
			Id:      id,
			Text:    node.EmbedText(),
			Title:   node.Title,
			HasBody: node.HasBody(),
		})
	}
	seen[id] = struct{}{}

	for i, child := range node.Children {
		if err := s.walkAndUpsert(ctx, uow, &id, child, i, forceReembed, seen, candidates, stats); err != nil {
			return err
		}
	}
	return nil
}

// upsertNode reconciles a single node against the row at its natural key
// (parent_id, ord). Content edits at a matching key are in-place updates;
// a missing row is an insert. Matching never uses the surrogate id.
func (s *syncService) upsertNode(
	ctx context.Context,
	repo contract.ContentRepository,
	parentID *uuid.UUID,
	ord int,
	node *doctree.Node,
	forceReembed bool,
	stats *entity.SyncStats,
) (id uuid.UUID, needEmbedding, isNew, contentChanged bool, err error) {
	dg := digest.Text(node.EmbedText())

	row, err := repo.FindByNaturalKey(ctx, parentID, ord)
	if err != nil {
		return uuid.Nil, false, false, false, err
	}

	needEmbedding = forceReembed

	if row == nil {
		now := time.Now().UTC()
		fresh := &entity.Content{
			ParentId:   parentID,
			Title:      node.Title,
			Body:       node.Body,
			Ord:        ord,
			TextDigest: dg,
			EmbeddedAt: &now,
		}
		if err := repo.Create(ctx, fresh); err != nil {
			return uuid.Nil, false, false, false, err
		}
		return fresh.Id, true, true, false, nil
	}

	dirty := false
	if row.TextDigest != dg {
		now := time.Now().UTC()
		row.Title = node.Title
		row.Body = node.Body
		row.TextDigest = dg
		row.EmbeddedAt = &now
		needEmbedding = true
		contentChanged = true
		dirty = true
	}

	// Position correction. Under pure natural-key matching the row's
	// stored position always equals the lookup key, so this fires only
	// when a different matching rule feeds the lookup. See DESIGN.md.
	if !sameParentID(row.ParentId, parentID) || row.Ord != ord {
		row.ParentId = parentID
		row.Ord = ord
		stats.Moved++
		dirty = true
	}

	if dirty {
		if err := repo.Update(ctx, row); err != nil {
			return uuid.Nil, false, false, false, err
		}
	}

	return row.Id, needEmbedding, false, contentChanged, nil
}

func (s *syncService) deleteOrphans(ctx context.Context, uow unitofwork.UnitOfWork, seen map[uuid.UUID]struct{}, stats *entity.SyncStats) error {
	allIDs, err := uow.ContentRepository().ListAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("list persisted ids: %w", err)
	}

	var toDelete []uuid.UUID
	for _, id := range allIDs {
		if _, ok := seen[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}
	if len(toDelete) == 0 {
		return nil
	}

	if err := uow.ContentRepository().DeleteByIDs(ctx, toDelete); err != nil {
		return fmt.Errorf("delete orphan rows: %w", err)
	}
	if err := s.vectors.DeletePoints(ctx, toDelete); err != nil {
		return fmt.Errorf("delete orphan vector points: %w", err)
	}

	stats.Deleted = len(toDelete)
	s.log.Info("sync", "Deleted obsolete rows and vectors", map[string]interface{}{
		"count": len(toDelete),
	})
	return nil
}

func (s *syncService) embedCandidates(ctx context.Context, candidates []entity.EmbedCandidate, stats *entity.SyncStats) error {
	if !s.vectors.Enabled() {
		s.log.Info("sync", "Skipping embedding generation and vector upsert (vector search disabled)", nil)
		return nil
	}
	if len(candidates) == 0 {
		s.log.Info("sync", "No content changes that require new embeddings", nil)
		return nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.GenerateBatch(texts, "RETRIEVAL_DOCUMENT")
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	if len(vectors) != len(candidates) {
		return fmt.Errorf("embedding batch size mismatch: %d vectors for %d candidates", len(vectors), len(candidates))
	}

	points := make([]vectorstore.Point, len(candidates))
	for i, c := range candidates {
		points[i] = vectorstore.Point{
			Id:      c.Id,
			Vector:  vectors[i],
			Title:   c.Title,
			HasBody: c.HasBody,
		}
	}
	if err := s.vectors.UpsertPoints(ctx, points); err != nil {
		return fmt.Errorf("upsert vector points: %w", err)
	}

	stats.Embedded = len(points)
	s.log.Info("sync", "Upserted vectors", map[string]interface{}{
		"count": len(points),
	})
	return nil
}

func sameParentID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
