package enums

import "fmt"

// ScholarshipStatus tracks the publication lifecycle of a scholarship.
type ScholarshipStatus string

const (
	ScholarshipStatusDraft  ScholarshipStatus = "DRAFT"
	ScholarshipStatusActive ScholarshipStatus = "ACTIVE"
	ScholarshipStatusClosed ScholarshipStatus = "CLOSED"
)

var validScholarshipStatuses = []ScholarshipStatus{
	ScholarshipStatusDraft,
	ScholarshipStatusActive,
	ScholarshipStatusClosed,
}

// String implements fmt.Stringer.
func (s ScholarshipStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScholarshipStatus.
func (s ScholarshipStatus) IsValid() bool {
	for _, candidate := range validScholarshipStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScholarshipStatus converts raw input into a ScholarshipStatus.
func ParseScholarshipStatus(value string) (ScholarshipStatus, error) {
	for _, candidate := range validScholarshipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scholarship status %q", value)
}
