package repository

import (
	"github.com/tnqbao/gau-cloudlet-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	FolderRepo *FolderRepository
	FileRepo   *FileRepository
}

func InitRepository(infra *infra.Infra) *Repository {
	return NewRepository(infra.Postgres.DB)
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		FolderRepo: NewFolderRepository(db),
		FileRepo:   NewFileRepository(db),
	}
}
