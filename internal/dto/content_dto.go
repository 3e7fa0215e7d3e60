package dto

import (
	"time"

	"github.com/google/uuid"
)

type ContentResponse struct {
	Id       uuid.UUID  `json:"id"`
	ParentId *uuid.UUID `json:"parent_id"`
	Title    string     `json:"title"`
	Body     *string    `json:"body"`
	Ord      int        `json:"ord"`
}

type ContentDetailResponse struct {
	Id         uuid.UUID         `json:"id"`
	ParentId   *uuid.UUID        `json:"parent_id"`
	Title      string            `json:"title"`
	Body       *string           `json:"body"`
	Ord        int               `json:"ord"`
	Breadcrumb []ContentResponse `json:"breadcrumb"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type SearchResultResponse struct {
	Id             uuid.UUID  `json:"id"`
	ParentId       *uuid.UUID `json:"parent_id"`
	Title          string     `json:"title"`
	Body           *string    `json:"body"`
	RelevanceScore float64    `json:"relevance_score"`
}
