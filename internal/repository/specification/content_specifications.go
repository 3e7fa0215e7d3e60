package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// ByParentID matches children of one parent; a nil parent matches the roots.
// IS NOT DISTINCT FROM keeps the nil case in a single predicate.
type ByParentID struct {
	ParentID *uuid.UUID
}

func (s ByParentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IS NOT DISTINCT FROM ?", s.ParentID)
}

// ByNaturalKey matches the reconciliation identity (parent_id, ord).
type ByNaturalKey struct {
	ParentID *uuid.UUID
	Ord      int
}

func (s ByNaturalKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IS NOT DISTINCT FROM ? AND ord = ?", s.ParentID, s.Ord)
}

// OrderBySiblingOrder yields the display order among siblings, with id as
// a stable tie-breaker.
type OrderBySiblingOrder struct{}

func (s OrderBySiblingOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("ord, id")
}
