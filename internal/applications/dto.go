package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
)

// ApplicationDTO exposes application data in API responses.
type ApplicationDTO struct {
	ID            uuid.UUID `json:"id"`
	ScholarshipID uuid.UUID `json:"scholarship_id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Phone         *string   `json:"phone,omitempty"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ApplyDTO holds one submission attempt.
type ApplyDTO struct {
	ScholarshipID uuid.UUID
	Email         string
	FullName      string
	Phone         *string
	Message       string
}

// ApplyResult reports the outcome of a submission. AlreadyApplied is true
// when an earlier application for the same (scholarship, email) pair absorbed
// this attempt.
type ApplyResult struct {
	Application    ApplicationDTO `json:"application"`
	AlreadyApplied bool           `json:"already_applied"`
}

func FromModel(a *models.Application) *ApplicationDTO {
	if a == nil {
		return nil
	}
	return &ApplicationDTO{
		ID:            a.ID,
		ScholarshipID: a.ScholarshipID,
		Email:         a.Email,
		FullName:      a.FullName,
		Phone:         a.Phone,
		Message:       a.Message,
		Status:        a.Status.String(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toDTOs(rows []models.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
