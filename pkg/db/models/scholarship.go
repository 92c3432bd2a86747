package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// Scholarship is an opportunity record owned by exactly one admin.
type Scholarship struct {
	ID              uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID         uuid.UUID               `gorm:"type:uuid;column:admin_id;not null;index"`
	Title           string                  `gorm:"type:text;not null"`
	Description     string                  `gorm:"type:text;not null"`
	Amount          decimal.Decimal         `gorm:"type:numeric(12,2);column:amount;not null"`
	AmountType      string                  `gorm:"type:text;column:amount_type;not null"`
	Category        string                  `gorm:"type:text;not null"`
	DegreeLevel     string                  `gorm:"type:text;column:degree_level;not null"`
	Deadline        *time.Time              `gorm:"type:timestamptz"`
	Status          enums.ScholarshipStatus `gorm:"type:scholarship_status;not null;default:'DRAFT'"`
	ApprovalStatus  enums.ApprovalStatus    `gorm:"type:approval_status;column:approval_status;not null;default:'PENDING'"`
	Views           int64                   `gorm:"column:views;not null;default:0"`
	AwardsAvailable int                     `gorm:"column:awards_available;not null;default:1"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// AcceptsApplications reports whether the scholarship is eligible for
// application at the given instant: ACTIVE, APPROVED, and deadline strictly
// in the future when one is set.
func (s Scholarship) AcceptsApplications(now time.Time) bool {
	if s.Status != enums.ScholarshipStatusActive {
		return false
	}
	if s.ApprovalStatus != enums.ApprovalStatusApproved {
		return false
	}
	if s.Deadline != nil && !s.Deadline.After(now) {
		return false
	}
	return true
}
