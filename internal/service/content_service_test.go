package service

import (
	"context"
	"testing"

	"tg-content-bot/internal/entity"
	"tg-content-bot/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// seedTree persists root -> mid -> leaf plus a second top-level row and
// returns them in that order.
func seedTree(t *testing.T, factory *memory.Factory) (*entity.Content, *entity.Content, *entity.Content, *entity.Content) {
	t.Helper()
	ctx := context.Background()
	repo := factory.ContentRepository()

	root := &entity.Content{Title: "Europe", Ord: 0}
	require.NoError(t, repo.Create(ctx, root))

	mid := &entity.Content{ParentId: &root.Id, Title: "France", Ord: 0}
	require.NoError(t, repo.Create(ctx, mid))

	body := "Paris is the capital."
	leaf := &entity.Content{ParentId: &mid.Id, Title: "Paris", Body: &body, Ord: 0}
	require.NoError(t, repo.Create(ctx, leaf))

	other := &entity.Content{Title: "Asia", Ord: 1}
	require.NoError(t, repo.Create(ctx, other))

	return root, mid, leaf, other
}

func TestGetChildrenRootAndNested(t *testing.T) {
	factory := memory.NewFactory()
	root, mid, _, other := seedTree(t, factory)
	svc := NewContentService(factory)

	top, err := svc.GetChildren(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, root.Id, top[0].Id)
	require.Equal(t, other.Id, top[1].Id)

	children, err := svc.GetChildren(context.Background(), &root.Id)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, mid.Id, children[0].Id)
}

func TestGetChildrenServesCachedUntilInvalidated(t *testing.T) {
	factory := memory.NewFactory()
	seedTree(t, factory)
	svc := NewContentService(factory)

	top, err := svc.GetChildren(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, top, 2)

	// A write bypassing the service is invisible until invalidation.
	extra := &entity.Content{Title: "Africa", Ord: 2}
	require.NoError(t, factory.ContentRepository().Create(context.Background(), extra))

	cached, err := svc.GetChildren(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, cached, 2)

	svc.Invalidate()
	fresh, err := svc.GetChildren(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, fresh, 3)
}

func TestGetBreadcrumbRootFirst(t *testing.T) {
	factory := memory.NewFactory()
	root, mid, leaf, _ := seedTree(t, factory)
	svc := NewContentService(factory)

	chain, err := svc.GetBreadcrumb(context.Background(), leaf.Id)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	require.Equal(t, root.Id, chain[0].Id)
	require.Equal(t, mid.Id, chain[1].Id)
	require.Equal(t, leaf.Id, chain[2].Id)
}

func TestGetBreadcrumbEndsOnCyclicParentChain(t *testing.T) {
	factory := memory.NewFactory()
	repo := factory.ContentRepository()
	ctx := context.Background()

	a := &entity.Content{Title: "A", Ord: 0}
	require.NoError(t, repo.Create(ctx, a))
	b := &entity.Content{ParentId: &a.Id, Title: "B", Ord: 0}
	require.NoError(t, repo.Create(ctx, b))

	// Corrupt the chain into a cycle, as a mid-sync crash could leave it.
	a.ParentId = &b.Id
	require.NoError(t, repo.Update(ctx, a))

	svc := NewContentService(factory)
	chain, err := svc.GetBreadcrumb(ctx, b.Id)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	require.Equal(t, a.Id, chain[0].Id)
	require.Equal(t, b.Id, chain[1].Id)
}

func TestGetContentIncludesBreadcrumb(t *testing.T) {
	factory := memory.NewFactory()
	root, _, leaf, _ := seedTree(t, factory)
	svc := NewContentService(factory)

	res, err := svc.GetContent(context.Background(), leaf.Id)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, "Paris", res.Title)
	require.NotNil(t, res.Body)
	require.Equal(t, "Paris is the capital.", *res.Body)
	require.Len(t, res.Breadcrumb, 3)
	require.Equal(t, root.Id, res.Breadcrumb[0].Id)
}

func TestGetContentUnknownIDReturnsNil(t *testing.T) {
	factory := memory.NewFactory()
	seedTree(t, factory)
	svc := NewContentService(factory)

	res, err := svc.GetContent(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, res)
}
