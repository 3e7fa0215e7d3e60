package model

import "time"

// KVEntry is a single-row key-value pair. The reserved key "doc_revision"
// records the last externally fetched document revision.
type KVEntry struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv"
}
