package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownedByParent restricts a query to one owner's direct children of parentID.
// A nil parentID selects root-level rows.
func ownedByParent(ownerID uuid.UUID, parentID *uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)
		if parentID == nil {
			return db.Where("parent_id IS NULL")
		}
		return db.Where("parent_id = ?", *parentID)
	}
}
