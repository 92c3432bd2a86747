package cron

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/internal/saved"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
)

type fakeDeadlineSource struct {
	rows     []saved.SavedDeadline
	err      error
	lastFrom time.Time
	lastTo   time.Time
}

func (f *fakeDeadlineSource) ListSaversWithDeadline(ctx context.Context, from, until time.Time) ([]saved.SavedDeadline, error) {
	f.lastFrom = from
	f.lastTo = until
	return f.rows, f.err
}

type fakeReminderNotifier struct {
	calls   []reminderCall
	failFor map[uuid.UUID]error
}

type reminderCall struct {
	userID  uuid.UUID
	kind    enums.NotificationType
	message string
}

func (f *fakeReminderNotifier) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string) error {
	if err, ok := f.failFor[userID]; ok {
		return err
	}
	f.calls = append(f.calls, reminderCall{userID: userID, kind: kind, message: message})
	return nil
}

func newDeadlineJob(t *testing.T, source *fakeDeadlineSource, notifier *fakeReminderNotifier, days int) *deadlineReminderJob {
	t.Helper()
	job, err := NewDeadlineReminderJob(DeadlineReminderJobParams{
		Logger:       logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Saved:        source,
		Notifier:     notifier,
		ReminderDays: days,
	})
	if err != nil {
		t.Fatalf("NewDeadlineReminderJob: %v", err)
	}
	return job.(*deadlineReminderJob)
}

func TestDeadlineReminderNotifiesSavers(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	userID := uuid.New()
	source := &fakeDeadlineSource{
		rows: []saved.SavedDeadline{
			{
				UserID:           userID,
				ScholarshipID:    uuid.New(),
				ScholarshipTitle: "STEM Futures Grant",
				Deadline:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	notifier := &fakeReminderNotifier{}
	job := newDeadlineJob(t, source, notifier, 7)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !source.lastFrom.Equal(now) || !source.lastTo.Equal(now.Add(7*24*time.Hour)) {
		t.Fatalf("unexpected window [%s, %s)", source.lastFrom, source.lastTo)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected one reminder, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.userID != userID || call.kind != enums.NotificationTypeDeadlineReminder {
		t.Fatalf("unexpected reminder %+v", call)
	}
	if !strings.Contains(call.message, "STEM Futures Grant") || !strings.Contains(call.message, "Mar 15, 2026") {
		t.Fatalf("unexpected message %q", call.message)
	}
}

func TestDeadlineReminderContinuesPastFailures(t *testing.T) {
	failing := uuid.New()
	healthy := uuid.New()
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	source := &fakeDeadlineSource{
		rows: []saved.SavedDeadline{
			{UserID: failing, ScholarshipTitle: "A", Deadline: deadline},
			{UserID: healthy, ScholarshipTitle: "B", Deadline: deadline},
		},
	}
	notifier := &fakeReminderNotifier{
		failFor: map[uuid.UUID]error{failing: errors.New("insert failed")},
	}
	job := newDeadlineJob(t, source, notifier, 7)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(notifier.calls) != 1 || notifier.calls[0].userID != healthy {
		t.Fatalf("healthy saver should still be notified, got %+v", notifier.calls)
	}
}

func TestDeadlineReminderEmptyWindow(t *testing.T) {
	notifier := &fakeReminderNotifier{}
	job := newDeadlineJob(t, &fakeDeadlineSource{}, notifier, 7)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no reminders, got %d", len(notifier.calls))
	}
}
