package unitofwork

import (
	"context"

	"tg-content-bot/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ContentRepository() contract.ContentRepository
	KVRepository() contract.KVRepository
}
