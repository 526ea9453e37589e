package dto

import "github.com/google/uuid"

type UploadURLRequestDTO struct {
	Name        string `json:"name" binding:"max=512"`
	ContentType string `json:"content_type" binding:"max=255"`
}

type RegisterFileRequestDTO struct {
	Name      string     `json:"name" binding:"max=512"`
	Size      int64      `json:"size"`
	StorageID string     `json:"storage_id" binding:"max=1024"`
	ParentID  *uuid.UUID `json:"parent_id"`
}
