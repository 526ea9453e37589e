package entity

import (
	"time"

	"github.com/google/uuid"
)

// File is the metadata row of one uploaded blob. StorageID is the object key in the
// bucket and is never shared between two rows.
type File struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"type:varchar(512);not null"`
	Size      int64      `json:"size" gorm:"not null"`
	StorageID string     `json:"storage_id" gorm:"type:varchar(1024);not null;uniqueIndex"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index:idx_files_owner_parent,priority:2"`
	OwnerID   uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index:idx_files_owner_parent,priority:1"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
}
