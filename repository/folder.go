package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-cloudlet-service/entity"
	"gorm.io/gorm"
)

type FolderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Create(ctx context.Context, folder *entity.Folder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *FolderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Folder, error) {
	var folder entity.Folder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&folder).Error
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListByOwnerAndParent returns the owner's folders directly under parentID, oldest first.
func (r *FolderRepository) ListByOwnerAndParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]entity.Folder, error) {
	folders := []entity.Folder{}
	err := r.db.WithContext(ctx).
		Scopes(ownedByParent(ownerID, parentID)).
		Order("created_at ASC").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// Delete removes a single folder row. Children are left untouched.
func (r *FolderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Folder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountOrphans counts folders whose parent folder no longer exists.
func (r *FolderRepository) CountOrphans(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Folder{}).
		Where("parent_id IS NOT NULL AND parent_id NOT IN (?)", r.db.Model(&entity.Folder{}).Select("id"))
	if ownerID != uuid.Nil {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
