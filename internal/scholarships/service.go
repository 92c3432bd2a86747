package scholarships

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox/payloads"
	"github.com/scholarbridge/scholarbridge-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Actor identifies who is performing a mutation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ListParams configures public and admin scholarship listings.
type ListParams struct {
	Limit       int
	Cursor      string
	Category    string
	DegreeLevel string
}

// ListResult wraps returned scholarships and the cursor for the next page.
type ListResult struct {
	Items  []ScholarshipDTO `json:"items"`
	Cursor string           `json:"cursor"`
}

// Service defines scholarship lifecycle operations.
type Service interface {
	Create(ctx context.Context, dto CreateScholarshipDTO) (*ScholarshipDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, dto UpdateScholarshipDTO) (*ScholarshipDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	GetDetail(ctx context.Context, id uuid.UUID) (*ScholarshipDTO, error)
	ListPublic(ctx context.Context, params ListParams) (*ListResult, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID, params ListParams) (*ListResult, error)
	ListPendingApproval(ctx context.Context) ([]ScholarshipDTO, error)
	Publish(ctx context.Context, actor Actor, id uuid.UUID) (*ScholarshipDTO, error)
	Close(ctx context.Context, actor Actor, id uuid.UUID) (*ScholarshipDTO, error)
	SetApproval(ctx context.Context, id uuid.UUID, approval enums.ApprovalStatus) (*ScholarshipDTO, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// ServiceParams bundles scholarship service dependencies.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Outbox outboxPublisher
	Now    func() time.Time
}

// NewService builds the scholarship service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("scholarships repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:   params.Repo,
		tx:     params.Tx,
		outbox: params.Outbox,
		now:    now,
	}, nil
}

func (s *service) Create(ctx context.Context, dto CreateScholarshipDTO) (*ScholarshipDTO, error) {
	if dto.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if dto.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if dto.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}

	scholarship := dto.ToModel()
	if err := s.repo.Create(ctx, scholarship); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create scholarship")
	}
	return FromModel(scholarship), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, dto UpdateScholarshipDTO) (*ScholarshipDTO, error) {
	scholarship, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if dto.Title != nil {
		if *dto.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Amount != nil {
		if dto.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
		}
		updates["amount"] = *dto.Amount
	}
	if dto.AmountType != nil {
		updates["amount_type"] = *dto.AmountType
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.DegreeLevel != nil {
		updates["degree_level"] = *dto.DegreeLevel
	}
	if dto.ClearDeadline {
		updates["deadline"] = nil
	} else if dto.Deadline != nil {
		updates["deadline"] = *dto.Deadline
	}
	if dto.AwardsAvailable != nil {
		if *dto.AwardsAvailable <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "awards available must be positive")
		}
		updates["awards_available"] = *dto.AwardsAvailable
	}
	if len(updates) == 0 {
		return FromModel(scholarship), nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update scholarship")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload scholarship")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete scholarship")
	}
	return nil
}

// GetDetail loads one scholarship and bumps its view counter. Every read
// counts: refreshes, bots, and the owning admin all increment.
func (s *service) GetDetail(ctx context.Context, id uuid.UUID) (*ScholarshipDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scholarship id required")
	}

	scholarship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment views")
	}
	scholarship.Views++

	return FromModel(scholarship), nil
}

func (s *service) ListPublic(ctx context.Context, params ListParams) (*ListResult, error) {
	query, err := s.buildQuery(params)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListEligible(ctx, s.now().UTC(), query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scholarships")
	}
	return buildListResult(rows, next), nil
}

func (s *service) ListByAdmin(ctx context.Context, adminID uuid.UUID, params ListParams) (*ListResult, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	query, err := s.buildQuery(params)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByAdmin(ctx, adminID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admin scholarships")
	}
	return buildListResult(rows, next), nil
}

func (s *service) ListPendingApproval(ctx context.Context) ([]ScholarshipDTO, error) {
	rows, err := s.repo.ListPendingApproval(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending scholarships")
	}
	return toDTOs(rows), nil
}

// Publish moves an approved scholarship to ACTIVE and queues the published
// event in the same transaction. Publishing an already active scholarship is
// a no-op.
func (s *service) Publish(ctx context.Context, actor Actor, id uuid.UUID) (*ScholarshipDTO, error) {
	var published *models.Scholarship
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		scholarship, err := s.loadOwnedWith(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		if scholarship.Status == enums.ScholarshipStatusActive {
			published = scholarship
			return nil
		}
		if scholarship.ApprovalStatus != enums.ApprovalStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "scholarship is not approved")
		}
		if scholarship.Deadline != nil && !scholarship.Deadline.After(s.now()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "deadline already passed")
		}

		if err := repo.Update(ctx, id, map[string]any{"status": enums.ScholarshipStatusActive}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate scholarship")
		}
		scholarship.Status = enums.ScholarshipStatusActive
		published = scholarship

		event := outbox.DomainEvent{
			EventType:     enums.EventScholarshipPublished,
			AggregateType: enums.AggregateScholarship,
			AggregateID:   scholarship.ID,
			Version:       1,
			Actor:         buildActor(actor),
			Data: payloads.ScholarshipPublishedEvent{
				ScholarshipID: scholarship.ID,
				AdminID:       scholarship.AdminID,
				Title:         scholarship.Title,
				Amount:        scholarship.Amount,
				AmountType:    scholarship.AmountType,
				Category:      scholarship.Category,
				DegreeLevel:   scholarship.DegreeLevel,
				Deadline:      scholarship.Deadline,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(published), nil
}

// Close retires a scholarship. Closing twice is a no-op.
func (s *service) Close(ctx context.Context, actor Actor, id uuid.UUID) (*ScholarshipDTO, error) {
	var closed *models.Scholarship
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		scholarship, err := s.loadOwnedWith(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		if scholarship.Status == enums.ScholarshipStatusClosed {
			closed = scholarship
			return nil
		}

		if err := repo.Update(ctx, id, map[string]any{"status": enums.ScholarshipStatusClosed}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close scholarship")
		}
		scholarship.Status = enums.ScholarshipStatusClosed
		closed = scholarship

		event := outbox.DomainEvent{
			EventType:     enums.EventScholarshipClosed,
			AggregateType: enums.AggregateScholarship,
			AggregateID:   scholarship.ID,
			Version:       1,
			Actor:         buildActor(actor),
			Data: payloads.ScholarshipClosedEvent{
				ScholarshipID: scholarship.ID,
				AdminID:       scholarship.AdminID,
				Title:         scholarship.Title,
				ClosedAt:      s.now().UTC(),
				Deadline:      scholarship.Deadline,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(closed), nil
}

// SetApproval records the super-admin review decision.
func (s *service) SetApproval(ctx context.Context, id uuid.UUID, approval enums.ApprovalStatus) (*ScholarshipDTO, error) {
	if !approval.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid approval status")
	}

	scholarship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}

	if scholarship.ApprovalStatus != approval {
		if err := s.repo.Update(ctx, id, map[string]any{"approval_status": approval}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update approval status")
		}
		scholarship.ApprovalStatus = approval
	}
	return FromModel(scholarship), nil
}

func (s *service) loadOwned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Scholarship, error) {
	return s.loadOwnedWith(ctx, s.repo, actor, id)
}

func (s *service) loadOwnedWith(ctx context.Context, repo Repository, actor Actor, id uuid.UUID) (*models.Scholarship, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scholarship id required")
	}

	scholarship, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}
	if actor.Role != enums.UserRoleSuperAdmin && scholarship.AdminID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "scholarship does not belong to admin")
	}
	return scholarship, nil
}

func (s *service) buildQuery(params ListParams) (ListQuery, error) {
	query := ListQuery{
		Limit:       params.Limit,
		Category:    params.Category,
		DegreeLevel: params.DegreeLevel,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return ListQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}
	return query, nil
}

func buildListResult(rows []models.Scholarship, next *pagination.Cursor) *ListResult {
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{
		Items:  toDTOs(rows),
		Cursor: cursor,
	}
}

func buildActor(actor Actor) *outbox.ActorRef {
	if actor.UserID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{
		UserID: actor.UserID,
		Role:   string(actor.Role),
	}
}
