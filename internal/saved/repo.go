package saved

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
)

// Repository exposes saved-scholarship persistence operations.
type Repository interface {
	// Insert bookmarks the scholarship unless it is already saved. It
	// reports whether a row was actually created.
	Insert(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error)
	// Remove deletes the bookmark and reports whether a row existed.
	Remove(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Scholarship, error)
	// ListSaversWithDeadline returns every (user, scholarship) bookmark whose
	// scholarship deadline falls inside [from, until).
	ListSaversWithDeadline(ctx context.Context, from, until time.Time) ([]SavedDeadline, error)
}

// SavedDeadline is one bookmark joined to its scholarship deadline data.
type SavedDeadline struct {
	UserID           uuid.UUID
	ScholarshipID    uuid.UUID
	ScholarshipTitle string
	Deadline         time.Time
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a saved-scholarships repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Insert(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error) {
	row := models.SavedScholarship{UserID: userID, ScholarshipID: scholarshipID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "scholarship_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Remove(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND scholarship_id = ?", userID, scholarshipID).
		Delete(&models.SavedScholarship{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Exists(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SavedScholarship{}).
		Where("user_id = ? AND scholarship_id = ?", userID, scholarshipID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Scholarship, error) {
	var rows []models.Scholarship
	err := r.db.WithContext(ctx).
		Joins("JOIN saved_scholarships ON saved_scholarships.scholarship_id = scholarships.id").
		Where("saved_scholarships.user_id = ?", userID).
		Order("saved_scholarships.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListSaversWithDeadline(ctx context.Context, from, until time.Time) ([]SavedDeadline, error) {
	var rows []SavedDeadline
	err := r.db.WithContext(ctx).
		Table("saved_scholarships").
		Select("saved_scholarships.user_id AS user_id, scholarships.id AS scholarship_id, scholarships.title AS scholarship_title, scholarships.deadline AS deadline").
		Joins("JOIN scholarships ON scholarships.id = saved_scholarships.scholarship_id").
		Where("scholarships.deadline >= ? AND scholarships.deadline < ?", from, until).
		Order("scholarships.deadline ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
