package resources

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
)

// Repository exposes resource persistence operations.
type Repository interface {
	Create(ctx context.Context, resource *models.Resource) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string) ([]models.Resource, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.Resource, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a resources repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	var resource models.Resource
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&resource).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Resource{}).Error
}

func (r *repositoryImpl) List(ctx context.Context, category string) ([]models.Resource, error) {
	query := r.db.WithContext(ctx).Model(&models.Resource{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []models.Resource
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.Resource, error) {
	var rows []models.Resource
	err := r.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
