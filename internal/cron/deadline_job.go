package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/internal/saved"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
)

const (
	defaultReminderDays = 7
	reminderDateLayout  = "Jan 2, 2006"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type savedDeadlineSource interface {
	ListSaversWithDeadline(ctx context.Context, from, until time.Time) ([]saved.SavedDeadline, error)
}

type reminderNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string) error
}

// DeadlineReminderJobParams configure the deadline reminder job.
type DeadlineReminderJobParams struct {
	Logger       *logger.Logger
	Saved        savedDeadlineSource
	Notifier     reminderNotifier
	ReminderDays int
}

// NewDeadlineReminderJob builds the job that warns students when a saved
// scholarship's deadline is coming up.
func NewDeadlineReminderJob(params DeadlineReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Saved == nil {
		return nil, fmt.Errorf("saved repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	days := params.ReminderDays
	if days <= 0 {
		days = defaultReminderDays
	}
	return &deadlineReminderJob{
		logg:     params.Logger,
		saved:    params.Saved,
		notifier: params.Notifier,
		days:     days,
		now:      time.Now,
	}, nil
}

type deadlineReminderJob struct {
	logg     *logger.Logger
	saved    savedDeadlineSource
	notifier reminderNotifier
	days     int
	now      func() time.Time
}

func (j *deadlineReminderJob) Name() string { return "deadline-reminder" }

// Run notifies every saver whose bookmarked scholarship closes inside the
// reminder window. Individual notification failures are collected; one bad
// row never stops the sweep.
func (j *deadlineReminderJob) Run(ctx context.Context) error {
	from := j.now().UTC()
	until := from.Add(time.Duration(j.days) * 24 * time.Hour)

	rows, err := j.saved.ListSaversWithDeadline(ctx, from, until)
	if err != nil {
		return fmt.Errorf("list upcoming deadlines: %w", err)
	}

	var errs error
	sent := 0
	for _, row := range rows {
		message := fmt.Sprintf("Deadline approaching for %s: %s.",
			row.ScholarshipTitle, row.Deadline.Format(reminderDateLayout))
		if err := j.notifier.Notify(ctx, row.UserID, enums.NotificationTypeDeadlineReminder, message); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("notify user %s: %w", row.UserID, err))
			continue
		}
		sent++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"window_days": j.days,
		"matched":     len(rows),
		"sent":        sent,
	})
	j.logg.Info(logCtx, "deadline reminder sweep complete")
	return errs
}
