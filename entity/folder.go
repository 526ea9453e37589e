package entity

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a node of a user's hierarchy. A nil ParentID places it at the root.
type Folder struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"type:varchar(255);not null"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index:idx_folders_owner_parent,priority:2"`
	OwnerID   uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index:idx_folders_owner_parent,priority:1"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
}
