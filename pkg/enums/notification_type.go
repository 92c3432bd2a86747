package enums

import "fmt"

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationTypeApplicationUpdate NotificationType = "APPLICATION_UPDATE"
	NotificationTypeNewScholarship    NotificationType = "NEW_SCHOLARSHIP"
	NotificationTypeDeadlineReminder  NotificationType = "DEADLINE_REMINDER"
	NotificationTypeSystem            NotificationType = "SYSTEM"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeApplicationUpdate,
	NotificationTypeNewScholarship,
	NotificationTypeDeadlineReminder,
	NotificationTypeSystem,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
