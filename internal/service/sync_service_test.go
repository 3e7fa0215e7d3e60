package service

import (
	"context"
	"sync"
	"testing"

	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/pkg/logger"
	"tg-content-bot/internal/repository/contract"
	"tg-content-bot/internal/repository/memory"
	"tg-content-bot/internal/vectorstore"
	"tg-content-bot/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	text     string
	revision string
	err      error
}

func (f *fakeSource) Fetch(ctx context.Context, docID string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.text, f.revision, nil
}

type fakeEmbedder struct {
	batchCalls int
	lastTexts  []string
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{float32(len(text)), 0, 1}},
	}, nil
}

func (f *fakeEmbedder) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	f.batchCalls++
	f.lastTexts = append([]string(nil), texts...)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), float32(i), 1}
	}
	return out, nil
}

type fakeVectorStore struct {
	mu     sync.Mutex
	points map[uuid.UUID]vectorstore.Point
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{points: make(map[uuid.UUID]vectorstore.Point)}
}

func (f *fakeVectorStore) Enabled() bool { return true }

func (f *fakeVectorStore) EnsureCollection(ctx context.Context) error { return nil }

func (f *fakeVectorStore) IsCollectionEmpty(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points) == 0
}

func (f *fakeVectorStore) UpsertPoints(ctx context.Context, points []vectorstore.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range points {
		f.points[p.Id] = p
	}
	return nil
}

func (f *fakeVectorStore) DeletePoints(ctx context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.points, id)
	}
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, vector []float32, limit int) ([]vectorstore.Hit, error) {
	return nil, nil
}

func (f *fakeVectorStore) has(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.points[id]
	return ok
}

type fixture struct {
	factory  *memory.Factory
	source   *fakeSource
	embedder *fakeEmbedder
	vectors  *fakeVectorStore
	sync     ISyncService
}

func newFixture(t *testing.T, text, revision string) *fixture {
	t.Helper()
	f := &fixture{
		factory:  memory.NewFactory(),
		source:   &fakeSource{text: text, revision: revision},
		embedder: &fakeEmbedder{},
		vectors:  newFakeVectorStore(),
	}
	f.sync = NewSyncService(f.factory, f.source, f.vectors, f.embedder, "doc-1", nil, logger.NewNopLogger())
	return f
}

func (f *fixture) allRows(t *testing.T) []*entity.Content {
	t.Helper()
	rows, err := f.factory.ContentRepository().FindAll(context.Background())
	require.NoError(t, err)
	return rows
}

func (f *fixture) rowByTitle(t *testing.T, title string) *entity.Content {
	t.Helper()
	for _, row := range f.allRows(t) {
		if row.Title == title {
			return row
		}
	}
	t.Fatalf("no row titled %q", title)
	return nil
}

func TestRunOnceInitialImport(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France\nH3:Paris\nParis is the capital.\nH1:Asia", "rev-1")

	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 4, stats.Inserted)
	require.Equal(t, 0, stats.Updated)
	require.Equal(t, 0, stats.Deleted)
	require.Equal(t, 4, stats.Embedded)

	rows := f.allRows(t)
	require.Len(t, rows, 4)

	europe := f.rowByTitle(t, "Europe")
	france := f.rowByTitle(t, "France")
	paris := f.rowByTitle(t, "Paris")
	require.Nil(t, europe.ParentId)
	require.NotNil(t, france.ParentId)
	require.Equal(t, europe.Id, *france.ParentId)
	require.NotNil(t, paris.ParentId)
	require.Equal(t, france.Id, *paris.ParentId)
	require.Equal(t, "Paris is the capital.", paris.BodyText())

	// Every row gets an index point on first import.
	for _, row := range rows {
		require.True(t, f.vectors.has(row.Id))
	}

	rev, err := f.factory.KVRepository().Get(context.Background(), contract.DocRevisionKey)
	require.NoError(t, err)
	require.Equal(t, "rev-1", rev)
}

func TestRunOnceSkipsUnchangedRevision(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France", "rev-1")

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.embedder.batchCalls)

	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, &entity.SyncStats{}, stats)
	require.Equal(t, 1, f.embedder.batchCalls)
}

func TestRunOnceIsIdempotentAcrossRevisions(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France\nH3:Paris\nbody", "rev-1")

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	// Same text republished under a new revision: digests match, so the
	// pass runs but touches nothing.
	f.source.revision = "rev-2"
	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 0, stats.Inserted)
	require.Equal(t, 0, stats.Updated)
	require.Equal(t, 0, stats.Deleted)
	require.Equal(t, 0, stats.Embedded)
	require.Len(t, f.allRows(t), 3)
}

func TestRunOnceBodyEditUpdatesRowInPlace(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France\nH3:Paris\nold body", "rev-1")

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	originalID := f.rowByTitle(t, "Paris").Id

	f.source.text = "H1:Europe\nH2:France\nH3:Paris\nnew body"
	f.source.revision = "rev-2"
	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 0, stats.Inserted)
	require.Equal(t, 1, stats.Updated)
	require.Equal(t, 1, stats.Embedded)

	paris := f.rowByTitle(t, "Paris")
	require.Equal(t, originalID, paris.Id, "edit must not change the surrogate id")
	require.Equal(t, "new body", paris.BodyText())

	// Only the changed node is re-embedded.
	require.Equal(t, []string{"new body"}, f.embedder.lastTexts)
}

func TestRunOnceInsertedSiblingRewritesByPosition(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France", "rev-1")

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	ordZeroID := f.rowByTitle(t, "France").Id

	// A sibling prepended before France lands on France's natural key
	// (parent, ord 0), so that row is rewritten and France reinserted.
	f.source.text = "H1:Europe\nH2:Germany\nH2:France"
	f.source.revision = "rev-2"
	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.Inserted)
	require.Equal(t, 1, stats.Updated)
	require.Equal(t, 0, stats.Deleted)

	germany := f.rowByTitle(t, "Germany")
	france := f.rowByTitle(t, "France")
	require.Equal(t, ordZeroID, germany.Id)
	require.Equal(t, 0, germany.Ord)
	require.Equal(t, 1, france.Ord)
}

func TestRunOnceDeletesOrphans(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH1:Asia", "rev-1")

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	asiaID := f.rowByTitle(t, "Asia").Id

	f.source.text = "H1:Europe"
	f.source.revision = "rev-2"
	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.Deleted)
	require.Len(t, f.allRows(t), 1)
	require.False(t, f.vectors.has(asiaID), "orphan vector point must be removed")
}

func TestRunOnceRemovedSubtreeDeletesDescendants(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France\nH3:Paris\nH1:Asia", "rev-1")

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, f.allRows(t), 4)

	f.source.text = "H1:Asia"
	f.source.revision = "rev-2"
	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	// Europe's subtree vanishes entirely. Asia is rewritten onto the
	// former Europe row because it now occupies (root, ord 0).
	require.Equal(t, 3, stats.Deleted)
	rows := f.allRows(t)
	require.Len(t, rows, 1)
	require.Equal(t, "Asia", rows[0].Title)
}

func TestRunOnceForcesReindexWhenVectorStoreEmpty(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France", "rev-1")

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.embedder.batchCalls)

	// Simulate a wiped index: same revision, but the empty probe must
	// override the skip and re-embed everything.
	for id := range f.vectors.points {
		delete(f.vectors.points, id)
	}

	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 0, stats.Inserted)
	require.Equal(t, 0, stats.Updated)
	require.Equal(t, 2, stats.Embedded)
	require.Equal(t, 2, f.embedder.batchCalls)

	for _, row := range f.allRows(t) {
		require.True(t, f.vectors.has(row.Id))
	}
}

func TestRunOnceVectorSearchDisabled(t *testing.T) {
	f := newFixture(t, "H1:Europe\nH2:France", "rev-1")
	f.sync = NewSyncService(f.factory, f.source, vectorstore.NewNoopStore(), f.embedder, "doc-1", nil, logger.NewNopLogger())

	stats, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, stats.Inserted)
	require.Equal(t, 0, stats.Embedded)
	require.Equal(t, 0, f.embedder.batchCalls, "no embedding calls when the index is disabled")
	require.Len(t, f.allRows(t), 2)
}

func TestRunOnceInvalidatesReadCache(t *testing.T) {
	f := newFixture(t, "H1:Europe", "rev-1")
	inv := &countingInvalidator{}
	f.sync = NewSyncService(f.factory, f.source, f.vectors, f.embedder, "doc-1", inv, logger.NewNopLogger())

	_, err := f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, inv.calls)

	// A skipped pass must not flush caches.
	_, err = f.sync.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, inv.calls)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }
