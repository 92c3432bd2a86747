package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// ScholarshipPublishedEvent is emitted when an approved scholarship goes live.
type ScholarshipPublishedEvent struct {
	ScholarshipID uuid.UUID       `json:"scholarshipId"`
	AdminID       uuid.UUID       `json:"adminId"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	AmountType    string          `json:"amountType,omitempty"`
	Category      string          `json:"category,omitempty"`
	DegreeLevel   string          `json:"degreeLevel,omitempty"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
}

// ScholarshipClosedEvent signals a scholarship leaving the active pool.
type ScholarshipClosedEvent struct {
	ScholarshipID uuid.UUID  `json:"scholarshipId"`
	AdminID       uuid.UUID  `json:"adminId"`
	Title         string     `json:"title"`
	ClosedAt      time.Time  `json:"closedAt"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

// ApplicationSubmittedEvent carries what the owning admin needs to be told
// about a fresh application.
type ApplicationSubmittedEvent struct {
	ApplicationID    uuid.UUID               `json:"applicationId"`
	ScholarshipID    uuid.UUID               `json:"scholarshipId"`
	AdminID          uuid.UUID               `json:"adminId"`
	ScholarshipTitle string                  `json:"scholarshipTitle"`
	ApplicantName    string                  `json:"applicantName"`
	ApplicantEmail   string                  `json:"applicantEmail"`
	Status           enums.ApplicationStatus `json:"status"`
	SubmittedAt      time.Time               `json:"submittedAt"`
}
