package applications

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// Repository exposes application persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// Insert writes the application unless the (scholarship_id, email) pair
	// already exists. It reports whether a row was actually created.
	Insert(ctx context.Context, application *models.Application) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByPair(ctx context.Context, scholarshipID uuid.UUID, email string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error
	ListByEmail(ctx context.Context, email string) ([]models.Application, error)
	ListByScholarship(ctx context.Context, scholarshipID uuid.UUID) ([]models.Application, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an applications repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Insert(ctx context.Context, application *models.Application) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scholarship_id"}, {Name: "email"}},
			DoNothing: true,
		}).
		Create(application)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repositoryImpl) FindByPair(ctx context.Context, scholarshipID uuid.UUID, email string) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Where("scholarship_id = ? AND email = ?", scholarshipID, strings.ToLower(email)).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repositoryImpl) ListByEmail(ctx context.Context, email string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByScholarship(ctx context.Context, scholarshipID uuid.UUID) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("scholarship_id = ?", scholarshipID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
