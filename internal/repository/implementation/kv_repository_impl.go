package implementation

import (
	"context"
	"errors"

	"tg-content-bot/internal/model"
	"tg-content-bot/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KVRepositoryImpl struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) contract.KVRepository {
	return &KVRepositoryImpl{db: db}
}

func (r *KVRepositoryImpl) Get(ctx context.Context, key string) (string, error) {
	var m model.KVEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return m.Value, nil
}

func (r *KVRepositoryImpl) Set(ctx context.Context, key string, value string) error {
	entry := model.KVEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
