package dto

import "github.com/google/uuid"

type CreateFolderRequestDTO struct {
	Name     string     `json:"name" binding:"max=255"`
	ParentID *uuid.UUID `json:"parent_id"`
}
