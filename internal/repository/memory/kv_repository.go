package memory

import (
	"context"

	"tg-content-bot/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type KVRepository struct {
	store *cache.Cache
}

func NewKVRepository() *KVRepository {
	return &KVRepository{store: cache.New(cache.NoExpiration, 0)}
}

func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	if v, found := r.store.Get(key); found {
		return v.(string), nil
	}
	return "", nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value string) error {
	r.store.Set(key, value, cache.NoExpiration)
	return nil
}

var _ contract.KVRepository = (*KVRepository)(nil)
