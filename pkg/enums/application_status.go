package enums

import "fmt"

// ApplicationStatus is the closed review lifecycle for an application.
// Every mutation path validates against this set.
type ApplicationStatus string

const (
	ApplicationStatusApplied     ApplicationStatus = "APPLIED"
	ApplicationStatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationStatusApproved    ApplicationStatus = "APPROVED"
	ApplicationStatusAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
)

var validApplicationStatuses = []ApplicationStatus{
	ApplicationStatusApplied,
	ApplicationStatusUnderReview,
	ApplicationStatusApproved,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// studentVisibleStatuses is the narrower set the student-facing status
// endpoint accepts.
var studentVisibleStatuses = []ApplicationStatus{
	ApplicationStatusApplied,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// String implements fmt.Stringer.
func (a ApplicationStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ApplicationStatus.
func (a ApplicationStatus) IsValid() bool {
	for _, candidate := range validApplicationStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsStudentVisible reports whether the status may be set through the
// student-facing update endpoint.
func (a ApplicationStatus) IsStudentVisible() bool {
	for _, candidate := range studentVisibleStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseApplicationStatus converts raw input into an ApplicationStatus.
func ParseApplicationStatus(value string) (ApplicationStatus, error) {
	for _, candidate := range validApplicationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application status %q", value)
}
