package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ContentVector is one point of the derived vector index. The primary key
// equals the content row's surrogate id; that join key is the only link
// between the relational store and the index and must never be violated.
//
// The vector dimension in the tag matches the default embedding model
// (nomic-embed-text, 768). Provisioning owns the actual DDL and recreates
// the table when the configured dimension differs, so this model is excluded
// from AutoMigrate.
type ContentVector struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"`
	Title     string          `gorm:"type:varchar(512);not null"`
	HasBody   bool            `gorm:"not null;default:false"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (ContentVector) TableName() string {
	return "content_vectors"
}
