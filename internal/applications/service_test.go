package applications

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox/payloads"
)

type fakeApplicationRepo struct {
	insertFn            func(ctx context.Context, application *models.Application) (bool, error)
	findByIDFn          func(ctx context.Context, id uuid.UUID) (*models.Application, error)
	findByPairFn        func(ctx context.Context, scholarshipID uuid.UUID, email string) (*models.Application, error)
	updateStatusFn      func(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error
	listByEmailFn       func(ctx context.Context, email string) ([]models.Application, error)
	listByScholarshipFn func(ctx context.Context, scholarshipID uuid.UUID) ([]models.Application, error)
}

func (f *fakeApplicationRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeApplicationRepo) Insert(ctx context.Context, application *models.Application) (bool, error) {
	return f.insertFn(ctx, application)
}

func (f *fakeApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeApplicationRepo) FindByPair(ctx context.Context, scholarshipID uuid.UUID, email string) (*models.Application, error) {
	return f.findByPairFn(ctx, scholarshipID, email)
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error {
	return f.updateStatusFn(ctx, id, status)
}

func (f *fakeApplicationRepo) ListByEmail(ctx context.Context, email string) ([]models.Application, error) {
	return f.listByEmailFn(ctx, email)
}

func (f *fakeApplicationRepo) ListByScholarship(ctx context.Context, scholarshipID uuid.UUID) ([]models.Application, error) {
	return f.listByScholarshipFn(ctx, scholarshipID)
}

type fakeScholarshipSource struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
}

func (f *fakeScholarshipSource) FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
	return f.findByIDFn(ctx, id)
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

type notifyCall struct {
	userID  uuid.UUID
	kind    enums.NotificationType
	message string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string) error {
	f.calls = append(f.calls, notifyCall{userID: userID, kind: kind, message: message})
	return f.err
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (f *fakeOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type serviceFixture struct {
	repo         *fakeApplicationRepo
	scholarships *fakeScholarshipSource
	notifier     *fakeNotifier
	outbox       *fakeOutboxPublisher
	svc          Service
}

func newFixture(t *testing.T, repo *fakeApplicationRepo, scholarships *fakeScholarshipSource) *serviceFixture {
	t.Helper()
	notifier := &fakeNotifier{}
	pub := &fakeOutboxPublisher{}
	svc, err := NewService(ServiceParams{
		Repo:         repo,
		Scholarships: scholarships,
		Notifier:     notifier,
		Tx:           fakeTxRunner{},
		Outbox:       pub,
		Logger:       logger.New(logger.Options{ServiceName: "applications-test", Output: io.Discard}),
		Now:          time.Now,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &serviceFixture{
		repo:         repo,
		scholarships: scholarships,
		notifier:     notifier,
		outbox:       pub,
		svc:          svc,
	}
}

func openScholarship(adminID uuid.UUID) *models.Scholarship {
	deadline := time.Now().Add(30 * 24 * time.Hour)
	return &models.Scholarship{
		ID:             uuid.New(),
		AdminID:        adminID,
		Title:          "STEM Futures Grant",
		Amount:         decimal.NewFromInt(5000),
		Deadline:       &deadline,
		Status:         enums.ScholarshipStatusActive,
		ApprovalStatus: enums.ApprovalStatusApproved,
	}
}

func TestApplyCreatesApplicationAndEmitsEvent(t *testing.T) {
	adminID := uuid.New()
	scholarship := openScholarship(adminID)

	repo := &fakeApplicationRepo{
		insertFn: func(ctx context.Context, application *models.Application) (bool, error) {
			application.ID = uuid.New()
			return true, nil
		},
	}
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, repo, source)

	got, err := fx.svc.Apply(context.Background(), ApplyDTO{
		ScholarshipID: scholarship.ID,
		Email:         "Jamie@Example.com",
		FullName:      "Jamie Rivera",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.AlreadyApplied {
		t.Fatal("fresh application flagged as duplicate")
	}
	if got.Application.Email != "jamie@example.com" {
		t.Fatalf("email not normalized: %s", got.Application.Email)
	}
	if got.Application.Status != string(enums.ApplicationStatusApplied) {
		t.Fatalf("expected APPLIED, got %s", got.Application.Status)
	}
	if len(fx.outbox.events) != 1 {
		t.Fatalf("expected one event, got %d", len(fx.outbox.events))
	}
	payload, ok := fx.outbox.events[0].Data.(payloads.ApplicationSubmittedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", fx.outbox.events[0].Data)
	}
	if payload.AdminID != adminID || payload.ScholarshipTitle != scholarship.Title {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestApplyDuplicateReturnsOriginal(t *testing.T) {
	scholarship := openScholarship(uuid.New())
	existing := &models.Application{
		ID:            uuid.New(),
		ScholarshipID: scholarship.ID,
		Email:         "jamie@example.com",
		FullName:      "Jamie Rivera",
		Status:        enums.ApplicationStatusUnderReview,
	}

	repo := &fakeApplicationRepo{
		insertFn: func(ctx context.Context, application *models.Application) (bool, error) {
			return false, nil
		},
		findByPairFn: func(ctx context.Context, scholarshipID uuid.UUID, email string) (*models.Application, error) {
			return existing, nil
		},
	}
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, repo, source)

	got, err := fx.svc.Apply(context.Background(), ApplyDTO{
		ScholarshipID: scholarship.ID,
		Email:         "jamie@example.com",
		FullName:      "Jamie Rivera",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !got.AlreadyApplied {
		t.Fatal("duplicate not flagged")
	}
	if got.Application.ID != existing.ID {
		t.Fatalf("expected original application, got %s", got.Application.ID)
	}
	if len(fx.outbox.events) != 0 {
		t.Fatalf("duplicate apply must not emit events, got %d", len(fx.outbox.events))
	}
}

func TestApplyClosedScholarshipRejected(t *testing.T) {
	scholarship := openScholarship(uuid.New())
	scholarship.Status = enums.ScholarshipStatusClosed

	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, &fakeApplicationRepo{}, source)

	_, err := fx.svc.Apply(context.Background(), ApplyDTO{
		ScholarshipID: scholarship.ID,
		Email:         "jamie@example.com",
		FullName:      "Jamie Rivera",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestApplyPastDeadlineRejected(t *testing.T) {
	scholarship := openScholarship(uuid.New())
	past := time.Now().Add(-time.Hour)
	scholarship.Deadline = &past

	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, &fakeApplicationRepo{}, source)

	_, err := fx.svc.Apply(context.Background(), ApplyDTO{
		ScholarshipID: scholarship.ID,
		Email:         "jamie@example.com",
		FullName:      "Jamie Rivera",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestApplyUnknownScholarship(t *testing.T) {
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	fx := newFixture(t, &fakeApplicationRepo{}, source)

	_, err := fx.svc.Apply(context.Background(), ApplyDTO{
		ScholarshipID: uuid.New(),
		Email:         "jamie@example.com",
		FullName:      "Jamie Rivera",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusNotifiesOwningAdmin(t *testing.T) {
	adminID := uuid.New()
	scholarship := openScholarship(adminID)
	application := &models.Application{
		ID:            uuid.New(),
		ScholarshipID: scholarship.ID,
		Email:         "jamie@example.com",
		FullName:      "Jamie Rivera",
		Status:        enums.ApplicationStatusApplied,
	}

	repo := &fakeApplicationRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Application, error) {
			return application, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error {
			return nil
		},
	}
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, repo, source)

	got, err := fx.svc.UpdateStatus(context.Background(), Actor{UserID: adminID, Role: enums.UserRoleAdmin}, application.ID, enums.ApplicationStatusUnderReview)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != string(enums.ApplicationStatusUnderReview) {
		t.Fatalf("expected UNDER_REVIEW, got %s", got.Status)
	}
	if len(fx.notifier.calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(fx.notifier.calls))
	}
	call := fx.notifier.calls[0]
	if call.userID != adminID || call.kind != enums.NotificationTypeApplicationUpdate {
		t.Fatalf("unexpected notification %+v", call)
	}
}

func TestUpdateStatusUnchangedSkipsNotification(t *testing.T) {
	adminID := uuid.New()
	scholarship := openScholarship(adminID)
	application := &models.Application{
		ID:            uuid.New(),
		ScholarshipID: scholarship.ID,
		Status:        enums.ApplicationStatusApplied,
	}

	repo := &fakeApplicationRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Application, error) {
			return application, nil
		},
	}
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, repo, source)

	_, err := fx.svc.UpdateStatus(context.Background(), Actor{UserID: adminID, Role: enums.UserRoleAdmin}, application.ID, enums.ApplicationStatusApplied)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(fx.notifier.calls) != 0 {
		t.Fatalf("no-op transition must not notify, got %d", len(fx.notifier.calls))
	}
}

func TestUpdateStatusForeignAdminRejected(t *testing.T) {
	scholarship := openScholarship(uuid.New())
	application := &models.Application{
		ID:            uuid.New(),
		ScholarshipID: scholarship.ID,
		Status:        enums.ApplicationStatusApplied,
	}

	repo := &fakeApplicationRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Application, error) {
			return application, nil
		},
	}
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, repo, source)

	_, err := fx.svc.UpdateStatus(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}, application.ID, enums.ApplicationStatusApproved)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateStatusNotificationFailureDoesNotFailUpdate(t *testing.T) {
	adminID := uuid.New()
	scholarship := openScholarship(adminID)
	application := &models.Application{
		ID:            uuid.New(),
		ScholarshipID: scholarship.ID,
		FullName:      "Jamie Rivera",
		Status:        enums.ApplicationStatusApplied,
	}

	repo := &fakeApplicationRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Application, error) {
			return application, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error {
			return nil
		},
	}
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, repo, source)
	fx.notifier.err = context.DeadlineExceeded

	got, err := fx.svc.UpdateStatus(context.Background(), Actor{UserID: adminID, Role: enums.UserRoleAdmin}, application.ID, enums.ApplicationStatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != string(enums.ApplicationStatusApproved) {
		t.Fatalf("status change lost: %s", got.Status)
	}
}

func TestStudentUpdateRejectsHiddenStatus(t *testing.T) {
	fx := newFixture(t, &fakeApplicationRepo{}, &fakeScholarshipSource{})

	_, err := fx.svc.UpdateStatusAsStudent(context.Background(), "jamie@example.com", uuid.New(), enums.ApplicationStatusUnderReview)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStudentUpdateRejectsForeignApplication(t *testing.T) {
	scholarship := openScholarship(uuid.New())
	application := &models.Application{
		ID:            uuid.New(),
		ScholarshipID: scholarship.ID,
		Email:         "someone-else@example.com",
		Status:        enums.ApplicationStatusApplied,
	}

	repo := &fakeApplicationRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Application, error) {
			return application, nil
		},
	}
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, repo, source)

	_, err := fx.svc.UpdateStatusAsStudent(context.Background(), "jamie@example.com", application.ID, enums.ApplicationStatusRejected)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListByScholarshipForeignAdminRejected(t *testing.T) {
	scholarship := openScholarship(uuid.New())
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return scholarship, nil
		},
	}
	fx := newFixture(t, &fakeApplicationRepo{}, source)

	_, err := fx.svc.ListByScholarship(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}, scholarship.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListByEmailNormalizesEmail(t *testing.T) {
	var seen string
	repo := &fakeApplicationRepo{
		listByEmailFn: func(ctx context.Context, email string) ([]models.Application, error) {
			seen = email
			return []models.Application{}, nil
		},
	}
	fx := newFixture(t, repo, &fakeScholarshipSource{})

	_, err := fx.svc.ListByEmail(context.Background(), " Jamie@Example.COM ")
	if err != nil {
		t.Fatalf("ListByEmail: %v", err)
	}
	if seen != "jamie@example.com" {
		t.Fatalf("email not normalized: %q", seen)
	}
}
