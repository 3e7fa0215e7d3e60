package entity

import (
	"time"

	"github.com/google/uuid"
)

type Content struct {
	Id         uuid.UUID
	ParentId   *uuid.UUID
	Title      string
	Body       *string
	Ord        int
	TextDigest string
	EmbeddedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BodyText returns the body or "" when the row has none.
func (c *Content) BodyText() string {
	if c.Body == nil {
		return ""
	}
	return *c.Body
}

func (c *Content) HasBody() bool {
	return c.Body != nil && *c.Body != ""
}
