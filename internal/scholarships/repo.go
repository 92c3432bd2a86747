package scholarships

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	"github.com/scholarbridge/scholarbridge-backend/pkg/pagination"
)

// Repository exposes scholarship persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, scholarship *models.Scholarship) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAdmin(ctx context.Context, adminID uuid.UUID, params ListQuery) ([]models.Scholarship, *pagination.Cursor, error)
	ListEligible(ctx context.Context, now time.Time, params ListQuery) ([]models.Scholarship, *pagination.Cursor, error)
	ListPendingApproval(ctx context.Context) ([]models.Scholarship, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// ListQuery narrows and pages scholarship listings.
type ListQuery struct {
	Limit       int
	Cursor      *pagination.Cursor
	Category    string
	DegreeLevel string
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a scholarships repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, scholarship *models.Scholarship) error {
	return r.db.WithContext(ctx).Create(scholarship).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	if err := r.db.WithContext(ctx).First(&scholarship, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Scholarship{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Scholarship{}, "id = ?", id).Error
}

func (r *repositoryImpl) ListByAdmin(ctx context.Context, adminID uuid.UUID, params ListQuery) ([]models.Scholarship, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Scholarship{}).Where("admin_id = ?", adminID)
	return r.page(query, params)
}

// ListEligible returns only publicly visible scholarships: ACTIVE, APPROVED,
// and with a deadline absent or strictly in the future.
func (r *repositoryImpl) ListEligible(ctx context.Context, now time.Time, params ListQuery) ([]models.Scholarship, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Scholarship{}).
		Where("status = ? AND approval_status = ?", enums.ScholarshipStatusActive, enums.ApprovalStatusApproved).
		Where("deadline IS NULL OR deadline > ?", now)
	if params.Category != "" {
		query = query.Where("category ILIKE ?", "%"+params.Category+"%")
	}
	if params.DegreeLevel != "" {
		query = query.Where("degree_level = ?", params.DegreeLevel)
	}
	return r.page(query, params)
}

func (r *repositoryImpl) ListPendingApproval(ctx context.Context) ([]models.Scholarship, error) {
	var rows []models.Scholarship
	err := r.db.WithContext(ctx).
		Where("approval_status = ?", enums.ApprovalStatusPending).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementViews bumps the counter with a column expression so concurrent
// reads never lose increments.
func (r *repositoryImpl) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Scholarship{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *repositoryImpl) page(query *gorm.DB, params ListQuery) ([]models.Scholarship, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Scholarship
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}
