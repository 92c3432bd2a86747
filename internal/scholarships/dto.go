package scholarships

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// ScholarshipDTO exposes scholarship data in API responses.
type ScholarshipDTO struct {
	ID              uuid.UUID               `json:"id"`
	AdminID         uuid.UUID               `json:"admin_id"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Amount          decimal.Decimal         `json:"amount"`
	AmountType      string                  `json:"amount_type"`
	Category        string                  `json:"category"`
	DegreeLevel     string                  `json:"degree_level"`
	Deadline        *time.Time              `json:"deadline,omitempty"`
	Status          enums.ScholarshipStatus `json:"status"`
	ApprovalStatus  enums.ApprovalStatus    `json:"approval_status"`
	Views           int64                   `json:"views"`
	AwardsAvailable int                     `json:"awards_available"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// CreateScholarshipDTO holds creation-time data. New scholarships always start
// as DRAFT / PENDING regardless of input.
type CreateScholarshipDTO struct {
	AdminID         uuid.UUID
	Title           string
	Description     string
	Amount          decimal.Decimal
	AmountType      string
	Category        string
	DegreeLevel     string
	Deadline        *time.Time
	AwardsAvailable int
}

// UpdateScholarshipDTO carries a partial update; nil fields are untouched.
type UpdateScholarshipDTO struct {
	Title           *string
	Description     *string
	Amount          *decimal.Decimal
	AmountType      *string
	Category        *string
	DegreeLevel     *string
	Deadline        *time.Time
	ClearDeadline   bool
	AwardsAvailable *int
}

func FromModel(s *models.Scholarship) *ScholarshipDTO {
	if s == nil {
		return nil
	}
	return &ScholarshipDTO{
		ID:              s.ID,
		AdminID:         s.AdminID,
		Title:           s.Title,
		Description:     s.Description,
		Amount:          s.Amount,
		AmountType:      s.AmountType,
		Category:        s.Category,
		DegreeLevel:     s.DegreeLevel,
		Deadline:        s.Deadline,
		Status:          s.Status,
		ApprovalStatus:  s.ApprovalStatus,
		Views:           s.Views,
		AwardsAvailable: s.AwardsAvailable,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (c CreateScholarshipDTO) ToModel() *models.Scholarship {
	awards := c.AwardsAvailable
	if awards <= 0 {
		awards = 1
	}
	return &models.Scholarship{
		AdminID:         c.AdminID,
		Title:           c.Title,
		Description:     c.Description,
		Amount:          c.Amount,
		AmountType:      c.AmountType,
		Category:        c.Category,
		DegreeLevel:     c.DegreeLevel,
		Deadline:        c.Deadline,
		Status:          enums.ScholarshipStatusDraft,
		ApprovalStatus:  enums.ApprovalStatusPending,
		AwardsAvailable: awards,
	}
}

func toDTOs(rows []models.Scholarship) []ScholarshipDTO {
	out := make([]ScholarshipDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
