package memory

import (
	"context"

	"tg-content-bot/internal/repository/contract"
	"tg-content-bot/internal/repository/unitofwork"
)

// Factory hands out units of work over one shared in-memory store. There is
// no real transaction support: Begin/Commit/Rollback are accepted no-ops.
type Factory struct {
	content *ContentRepository
	kv      *KVRepository
}

func NewFactory() *Factory {
	return &Factory{
		content: NewContentRepository(),
		kv:      NewKVRepository(),
	}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{factory: f}
}

// ContentRepository exposes the shared store for test setup and assertions.
func (f *Factory) ContentRepository() *ContentRepository {
	return f.content
}

func (f *Factory) KVRepository() *KVRepository {
	return f.kv
}

type unitOfWork struct {
	factory *Factory
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) ContentRepository() contract.ContentRepository {
	return u.factory.content
}

func (u *unitOfWork) KVRepository() contract.KVRepository {
	return u.factory.kv
}

var _ unitofwork.RepositoryFactory = (*Factory)(nil)
