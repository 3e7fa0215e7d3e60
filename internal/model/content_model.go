package model

import (
	"time"

	"github.com/google/uuid"
)

// Content is one node of the persisted document tree. Reconciliation matches
// rows by the natural key (parent_id, ord), never by the surrogate id, so the
// composite index backs every sync lookup. No soft delete here: orphan rows
// are removed for good once their document node disappears.
type Content struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ParentId   *uuid.UUID `gorm:"type:uuid;index:idx_content_natural_key"`
	Title      string     `gorm:"type:varchar(512);not null"`
	Body       *string    `gorm:"type:text"`
	Ord        int        `gorm:"not null;index:idx_content_natural_key"`
	TextDigest string     `gorm:"type:char(64);not null"`
	EmbeddedAt *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Content) TableName() string {
	return "content"
}
