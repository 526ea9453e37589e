package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-cloudlet-service/entity"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByOwnerAndParent returns the owner's files directly under parentID, oldest first.
func (r *FileRepository) ListByOwnerAndParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]entity.File, error) {
	files := []entity.File{}
	err := r.db.WithContext(ctx).
		Scopes(ownedByParent(ownerID, parentID)).
		Order("created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.File{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListStorageIDs returns every registered storage key, restricted to ownerID unless it is uuid.Nil.
func (r *FileRepository) ListStorageIDs(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	var storageIDs []string
	query := r.db.WithContext(ctx).Model(&entity.File{})
	if ownerID != uuid.Nil {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.Pluck("storage_id", &storageIDs).Error; err != nil {
		return nil, err
	}
	return storageIDs, nil
}

// CountOrphans counts files whose parent folder no longer exists.
func (r *FileRepository) CountOrphans(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.File{}).
		Where("parent_id IS NOT NULL AND parent_id NOT IN (?)", r.db.Model(&entity.Folder{}).Select("id"))
	if ownerID != uuid.Nil {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
