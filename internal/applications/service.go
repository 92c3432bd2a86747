package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type scholarshipSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string) error
}

// Actor identifies who is performing a mutation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service defines application lifecycle operations.
type Service interface {
	Apply(ctx context.Context, dto ApplyDTO) (*ApplyResult, error)
	UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status enums.ApplicationStatus) (*ApplicationDTO, error)
	UpdateStatusAsStudent(ctx context.Context, email string, id uuid.UUID, status enums.ApplicationStatus) (*ApplicationDTO, error)
	ListByEmail(ctx context.Context, email string) ([]ApplicationDTO, error)
	ListByScholarship(ctx context.Context, actor Actor, scholarshipID uuid.UUID) ([]ApplicationDTO, error)
}

type service struct {
	repo         Repository
	scholarships scholarshipSource
	notifier     notifier
	tx           txRunner
	outbox       outboxPublisher
	logg         *logger.Logger
	now          func() time.Time
}

// ServiceParams bundles application service dependencies.
type ServiceParams struct {
	Repo         Repository
	Scholarships scholarshipSource
	Notifier     notifier
	Tx           txRunner
	Outbox       outboxPublisher
	Logger       *logger.Logger
	Now          func() time.Time
}

// NewService builds the applications service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("applications repository required")
	}
	if params.Scholarships == nil {
		return nil, fmt.Errorf("scholarship source required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:         params.Repo,
		scholarships: params.Scholarships,
		notifier:     params.Notifier,
		tx:           params.Tx,
		outbox:       params.Outbox,
		logg:         params.Logger,
		now:          now,
	}, nil
}

// Apply submits an application. Repeat submissions for the same
// (scholarship, email) pair resolve to the original row and emit nothing.
func (s *service) Apply(ctx context.Context, dto ApplyDTO) (*ApplyResult, error) {
	if dto.ScholarshipID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scholarship id required")
	}
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if strings.TrimSpace(dto.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	}

	scholarship, err := s.scholarships.FindByID(ctx, dto.ScholarshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}
	if !scholarship.AcceptsApplications(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "scholarship is not accepting applications")
	}

	application := &models.Application{
		ScholarshipID: dto.ScholarshipID,
		Email:         email,
		FullName:      strings.TrimSpace(dto.FullName),
		Phone:         dto.Phone,
		Message:       dto.Message,
		Status:        enums.ApplicationStatusApplied,
	}

	var result ApplyResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inserted, err := repo.Insert(ctx, application)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert application")
		}
		if !inserted {
			existing, err := repo.FindByPair(ctx, dto.ScholarshipID, email)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing application")
			}
			result = ApplyResult{Application: *FromModel(existing), AlreadyApplied: true}
			return nil
		}
		result = ApplyResult{Application: *FromModel(application)}

		event := outbox.DomainEvent{
			EventType:     enums.EventApplicationSubmitted,
			AggregateType: enums.AggregateApplication,
			AggregateID:   application.ID,
			Version:       1,
			Data: payloads.ApplicationSubmittedEvent{
				ApplicationID:    application.ID,
				ScholarshipID:    scholarship.ID,
				AdminID:          scholarship.AdminID,
				ScholarshipTitle: scholarship.Title,
				ApplicantName:    application.FullName,
				ApplicantEmail:   application.Email,
				Status:           application.Status,
				SubmittedAt:      s.now().UTC(),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateStatus records a review decision. The full status set is allowed;
// callers are expected to be the owning admin or a super admin.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status enums.ApplicationStatus) (*ApplicationDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid application status")
	}

	application, scholarship, err := s.loadWithScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != enums.UserRoleSuperAdmin && scholarship.AdminID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "application does not belong to admin")
	}

	return s.applyStatus(ctx, application, scholarship, status)
}

// UpdateStatusAsStudent lets an applicant move their own application within
// the student-visible subset of statuses.
func (s *service) UpdateStatusAsStudent(ctx context.Context, email string, id uuid.UUID, status enums.ApplicationStatus) (*ApplicationDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !status.IsStudentVisible() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status not allowed")
	}

	application, scholarship, err := s.loadWithScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.Email != email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "application does not belong to applicant")
	}

	return s.applyStatus(ctx, application, scholarship, status)
}

func (s *service) ListByEmail(ctx context.Context, email string) ([]ApplicationDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByScholarship(ctx context.Context, actor Actor, scholarshipID uuid.UUID) ([]ApplicationDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if scholarshipID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scholarship id required")
	}

	scholarship, err := s.scholarships.FindByID(ctx, scholarshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}
	if actor.Role != enums.UserRoleSuperAdmin && scholarship.AdminID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "scholarship does not belong to admin")
	}

	rows, err := s.repo.ListByScholarship(ctx, scholarshipID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return toDTOs(rows), nil
}

// applyStatus persists a status transition and tells the owning admin about
// it. The notification is best effort: a failed write never rolls back the
// status change.
func (s *service) applyStatus(ctx context.Context, application *models.Application, scholarship *models.Scholarship, status enums.ApplicationStatus) (*ApplicationDTO, error) {
	if application.Status == status {
		return FromModel(application), nil
	}

	if err := s.repo.UpdateStatus(ctx, application.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application status")
	}
	application.Status = status

	message := fmt.Sprintf("Application from %s for %s moved to %s.",
		application.FullName, scholarship.Title, status)
	if err := s.notifier.Notify(ctx, scholarship.AdminID, enums.NotificationTypeApplicationUpdate, message); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"application_id": application.ID.String(),
			"admin_id":       scholarship.AdminID.String(),
			"error":          err.Error(),
		})
		s.logg.Warn(logCtx, "application status notification failed")
	}

	return FromModel(application), nil
}

func (s *service) loadWithScholarship(ctx context.Context, id uuid.UUID) (*models.Application, *models.Scholarship, error) {
	if id == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}

	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	scholarship, err := s.scholarships.FindByID(ctx, application.ScholarshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}
	return application, scholarship, nil
}
