package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
)

const (
	broadcastConcurrency    = 8
	broadcastDeadlineLayout = "Jan 2, 2006"
	deadlinePlaceholder     = "TBD"
)

// Fanout turns domain events into persisted notification rows. Broadcasts are
// best-effort: recipients are dispatched concurrently and partial failures are
// reported, never rolled back.
type Fanout interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string) error
	BroadcastAdminSignup(ctx context.Context, name, email string) (int, error)
	BroadcastFieldMatch(ctx context.Context, scholarshipID uuid.UUID) (BroadcastResult, error)
}

// BroadcastResult reports how a broadcast went. Created and Matched match 1:1
// unless some recipient inserts failed.
type BroadcastResult struct {
	Created int `json:"created"`
	Matched int `json:"matched"`
}

type recipientSource interface {
	ListApprovedSuperAdmins(ctx context.Context) ([]models.User, error)
	ListFieldMatchCandidates(ctx context.Context, category, degreeLevel string) ([]models.User, error)
}

type scholarshipSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
}

type fanout struct {
	repo         Repository
	users        recipientSource
	scholarships scholarshipSource
	logg         *logger.Logger
}

// FanoutParams bundles the dependencies for the fanout engine.
type FanoutParams struct {
	Repo         Repository
	Users        recipientSource
	Scholarships scholarshipSource
	Logger       *logger.Logger
}

// NewFanout builds the notification fanout engine.
func NewFanout(params FanoutParams) (Fanout, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("notifications repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("recipient source is required")
	}
	if params.Scholarships == nil {
		return nil, fmt.Errorf("scholarship source is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &fanout{
		repo:         params.Repo,
		users:        params.Users,
		scholarships: params.Scholarships,
		logg:         params.Logger,
	}, nil
}

// Notify inserts exactly one unread notification. Repeated identical events
// produce repeated rows; deduplication is the caller's problem.
func (f *fanout) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient user id required")
	}
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	if message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification message required")
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
	}
	if err := f.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

// BroadcastAdminSignup tells every approved super-admin about a pending admin
// account. Zero approved super-admins is a success with zero rows.
func (f *fanout) BroadcastAdminSignup(ctx context.Context, name, email string) (int, error) {
	if email == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "admin email required")
	}

	recipients, err := f.users.ListApprovedSuperAdmins(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list super admins")
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	message := fmt.Sprintf("New admin account pending approval: %s (%s)", name, email)
	created, err := f.dispatch(ctx, recipients, enums.NotificationTypeSystem, func(models.User) string {
		return message
	})
	if err != nil {
		return created, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "admin signup broadcast")
	}
	return created, nil
}

// BroadcastFieldMatch notifies approved students whose profile matches the
// scholarship's category or degree level and who opted into field alerts.
func (f *fanout) BroadcastFieldMatch(ctx context.Context, scholarshipID uuid.UUID) (BroadcastResult, error) {
	if scholarshipID == uuid.Nil {
		return BroadcastResult{}, pkgerrors.New(pkgerrors.CodeValidation, "scholarship id required")
	}

	scholarship, err := f.scholarships.FindByID(ctx, scholarshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BroadcastResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return BroadcastResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}

	candidates, err := f.users.ListFieldMatchCandidates(ctx, scholarship.Category, scholarship.DegreeLevel)
	if err != nil {
		return BroadcastResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list field match candidates")
	}

	recipients := make([]models.User, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.NotificationPrefs.Enabled(models.PrefFieldNotifications) {
			recipients = append(recipients, candidate)
		}
	}

	result := BroadcastResult{Matched: len(recipients)}
	if len(recipients) == 0 {
		return result, nil
	}

	message := fieldMatchMessage(scholarship)
	created, err := f.dispatch(ctx, recipients, enums.NotificationTypeNewScholarship, func(models.User) string {
		return message
	})
	result.Created = created
	if err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "field match broadcast")
	}
	return result, nil
}

// dispatch fans the insert out across recipients. Failures never cancel the
// siblings; they are aggregated and returned alongside the success count.
func (f *fanout) dispatch(ctx context.Context, recipients []models.User, kind enums.NotificationType, messageFor func(models.User) string) (int, error) {
	var (
		mtx     sync.Mutex
		created int
		failed  error
	)

	group := errgroup.Group{}
	group.SetLimit(broadcastConcurrency)
	for _, recipient := range recipients {
		recipient := recipient
		group.Go(func() error {
			notification := &models.Notification{
				UserID:  recipient.ID,
				Type:    kind,
				Message: messageFor(recipient),
			}
			err := f.repo.Create(ctx, notification)

			mtx.Lock()
			defer mtx.Unlock()
			if err != nil {
				failed = multierr.Append(failed, fmt.Errorf("recipient %s: %w", recipient.ID, err))
				return nil
			}
			created++
			return nil
		})
	}
	_ = group.Wait()

	if failed != nil {
		logCtx := f.logg.WithFields(ctx, map[string]any{
			"recipients": len(recipients),
			"created":    created,
		})
		f.logg.Warn(logCtx, "notification broadcast partially failed")
	}
	return created, failed
}

func fieldMatchMessage(scholarship *models.Scholarship) string {
	deadline := deadlinePlaceholder
	if scholarship.Deadline != nil {
		deadline = scholarship.Deadline.Format(broadcastDeadlineLayout)
	}
	return fmt.Sprintf("New scholarship posted: %s. Amount: %s. Deadline: %s.",
		scholarship.Title, scholarship.Amount.String(), deadline)
}
