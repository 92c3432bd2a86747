package notifications

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	dbtypes "github.com/scholarbridge/scholarbridge-backend/pkg/db/types"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
)

type fakeRecipientSource struct {
	superAdmins []models.User
	candidates  []models.User
	err         error
}

func (f *fakeRecipientSource) ListApprovedSuperAdmins(ctx context.Context) ([]models.User, error) {
	return f.superAdmins, f.err
}

func (f *fakeRecipientSource) ListFieldMatchCandidates(ctx context.Context, category, degreeLevel string) ([]models.User, error) {
	return f.candidates, f.err
}

type fakeScholarshipSource struct {
	scholarship *models.Scholarship
	err         error
}

func (f *fakeScholarshipSource) FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scholarship, nil
}

type captureRepo struct {
	fakeRepository
	mtx     sync.Mutex
	created []models.Notification
	failFor map[uuid.UUID]error
}

func (c *captureRepo) Create(ctx context.Context, notification *models.Notification) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if err, ok := c.failFor[notification.UserID]; ok {
		return err
	}
	c.created = append(c.created, *notification)
	return nil
}

func newTestFanout(t *testing.T, repo Repository, users recipientSource, scholarships scholarshipSource) Fanout {
	t.Helper()
	f, err := NewFanout(FanoutParams{
		Repo:         repo,
		Users:        users,
		Scholarships: scholarships,
		Logger:       logger.New(logger.Options{ServiceName: "fanout-test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new fanout: %v", err)
	}
	return f
}

func TestFanout_NotifyCreatesUnreadRow(t *testing.T) {
	repo := &captureRepo{}
	f := newTestFanout(t, repo, &fakeRecipientSource{}, &fakeScholarshipSource{})

	userID := uuid.New()
	if err := f.Notify(context.Background(), userID, enums.NotificationTypeApplicationUpdate, "status changed"); err != nil {
		t.Fatalf("unexpected notify error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 row, got %d", len(repo.created))
	}
	row := repo.created[0]
	if row.UserID != userID || row.Type != enums.NotificationTypeApplicationUpdate {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.ReadAt != nil {
		t.Fatal("expected unread notification")
	}
}

func TestFanout_NotifyRejectsInvalidType(t *testing.T) {
	f := newTestFanout(t, &captureRepo{}, &fakeRecipientSource{}, &fakeScholarshipSource{})
	err := f.Notify(context.Background(), uuid.New(), enums.NotificationType("SMOKE_SIGNAL"), "hello")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFanout_AdminSignupZeroRecipientsIsSuccess(t *testing.T) {
	repo := &captureRepo{}
	f := newTestFanout(t, repo, &fakeRecipientSource{}, &fakeScholarshipSource{})

	created, err := f.BroadcastAdminSignup(context.Background(), "Dana Ortiz", "dana@example.edu")
	if err != nil {
		t.Fatalf("unexpected broadcast error: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected 0 created, got %d", created)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no rows, got %d", len(repo.created))
	}
}

func TestFanout_AdminSignupNotifiesEverySuperAdmin(t *testing.T) {
	superAdmins := []models.User{
		{ID: uuid.New(), Role: enums.UserRoleSuperAdmin, Approved: true},
		{ID: uuid.New(), Role: enums.UserRoleSuperAdmin, Approved: true},
		{ID: uuid.New(), Role: enums.UserRoleSuperAdmin, Approved: true},
	}
	repo := &captureRepo{}
	f := newTestFanout(t, repo, &fakeRecipientSource{superAdmins: superAdmins}, &fakeScholarshipSource{})

	created, err := f.BroadcastAdminSignup(context.Background(), "Dana Ortiz", "dana@example.edu")
	if err != nil {
		t.Fatalf("unexpected broadcast error: %v", err)
	}
	if created != 3 {
		t.Fatalf("expected 3 created, got %d", created)
	}
	seen := map[uuid.UUID]bool{}
	for _, row := range repo.created {
		if row.Type != enums.NotificationTypeSystem {
			t.Fatalf("expected SYSTEM type, got %s", row.Type)
		}
		if !strings.Contains(row.Message, "Dana Ortiz") || !strings.Contains(row.Message, "dana@example.edu") {
			t.Fatalf("message missing identity: %q", row.Message)
		}
		seen[row.UserID] = true
	}
	for _, admin := range superAdmins {
		if !seen[admin.ID] {
			t.Fatalf("super admin %s not notified", admin.ID)
		}
	}
}

func TestFanout_AdminSignupPartialFailure(t *testing.T) {
	failing := uuid.New()
	superAdmins := []models.User{
		{ID: uuid.New()},
		{ID: failing},
		{ID: uuid.New()},
	}
	repo := &captureRepo{failFor: map[uuid.UUID]error{failing: errors.New("insert failed")}}
	f := newTestFanout(t, repo, &fakeRecipientSource{superAdmins: superAdmins}, &fakeScholarshipSource{})

	created, err := f.BroadcastAdminSignup(context.Background(), "Dana Ortiz", "dana@example.edu")
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if created != 2 {
		t.Fatalf("expected 2 created despite failure, got %d", created)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 persisted rows, got %d", len(repo.created))
	}
}

func TestFanout_FieldMatchScholarshipNotFound(t *testing.T) {
	f := newTestFanout(t, &captureRepo{}, &fakeRecipientSource{}, &fakeScholarshipSource{err: gorm.ErrRecordNotFound})

	_, err := f.BroadcastFieldMatch(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFanout_FieldMatchFiltersPreferenceFlag(t *testing.T) {
	optedIn := models.User{
		ID:                uuid.New(),
		NotificationPrefs: dbtypes.BoolMap{models.PrefFieldNotifications: true},
	}
	optedOut := models.User{
		ID:                uuid.New(),
		NotificationPrefs: dbtypes.BoolMap{models.PrefFieldNotifications: false},
	}
	flagAbsent := models.User{ID: uuid.New(), NotificationPrefs: dbtypes.BoolMap{}}

	deadline := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	scholarship := &models.Scholarship{
		ID:          uuid.New(),
		Title:       "Engineering Excellence Award",
		Amount:      decimal.NewFromInt(5000),
		Category:    "Engineering",
		DegreeLevel: "Masters",
		Deadline:    &deadline,
	}

	repo := &captureRepo{}
	f := newTestFanout(t, repo,
		&fakeRecipientSource{candidates: []models.User{optedIn, optedOut, flagAbsent}},
		&fakeScholarshipSource{scholarship: scholarship})

	result, err := f.BroadcastFieldMatch(context.Background(), scholarship.ID)
	if err != nil {
		t.Fatalf("unexpected broadcast error: %v", err)
	}
	if result.Matched != 1 || result.Created != 1 {
		t.Fatalf("expected 1/1, got %+v", result)
	}
	if len(repo.created) != 1 || repo.created[0].UserID != optedIn.ID {
		t.Fatalf("wrong recipient set: %+v", repo.created)
	}
	msg := repo.created[0].Message
	if !strings.Contains(msg, "Engineering Excellence Award") {
		t.Fatalf("message missing title: %q", msg)
	}
	if !strings.Contains(msg, "5000") {
		t.Fatalf("message missing amount: %q", msg)
	}
	if !strings.Contains(msg, "Mar 15, 2026") {
		t.Fatalf("message missing formatted deadline: %q", msg)
	}
	if repo.created[0].Type != enums.NotificationTypeNewScholarship {
		t.Fatalf("expected NEW_SCHOLARSHIP type, got %s", repo.created[0].Type)
	}
}

func TestFanout_FieldMatchMissingDeadlineUsesPlaceholder(t *testing.T) {
	recipient := models.User{
		ID:                uuid.New(),
		NotificationPrefs: dbtypes.BoolMap{models.PrefFieldNotifications: true},
	}
	scholarship := &models.Scholarship{
		ID:       uuid.New(),
		Title:    "Open Grant",
		Amount:   decimal.NewFromInt(1200),
		Category: "Biology",
	}

	repo := &captureRepo{}
	f := newTestFanout(t, repo,
		&fakeRecipientSource{candidates: []models.User{recipient}},
		&fakeScholarshipSource{scholarship: scholarship})

	result, err := f.BroadcastFieldMatch(context.Background(), scholarship.ID)
	if err != nil {
		t.Fatalf("unexpected broadcast error: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("expected 1 created, got %d", result.Created)
	}
	if !strings.Contains(repo.created[0].Message, "TBD") {
		t.Fatalf("expected TBD placeholder in %q", repo.created[0].Message)
	}
}
