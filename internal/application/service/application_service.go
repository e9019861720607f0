package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hrops/traveldesk/internal/application/port"
	"github.com/hrops/traveldesk/internal/domain/entity"
	"github.com/hrops/traveldesk/internal/domain/workflow"
	"github.com/hrops/traveldesk/internal/draft"
	"github.com/hrops/traveldesk/internal/validation"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ApplicationService manages travel applications through their whole
// lifecycle: draft editing, submission and the approval chain.
type ApplicationService interface {
	CreateDraft(applicantID, department string) (*entity.TravelApplication, error)
	Get(id int64) (*entity.TravelApplication, error)
	SaveDraft(id int64, applicantID string, d entity.TravelApplicationDraft) (*entity.TravelApplication, error)
	RecomputeAdvance(id int64, applicantID string) (*entity.TravelApplication, error)
	CheckDraft(id int64) ([]validation.FieldError, error)

	Submit(ctx context.Context, id int64, applicantID string) (*entity.TravelApplication, []validation.FieldError, error)
	Approve(ctx context.Context, id int64, actor, role, comment string) (*entity.TravelApplication, error)
	Reject(ctx context.Context, id int64, actor, role, comment string) (*entity.TravelApplication, error)
	Cancel(ctx context.Context, id int64, applicantID, comment string) (*entity.TravelApplication, error)
	Process(ctx context.Context, id int64, actor, comment string) (*entity.TravelApplication, error)
	Close(ctx context.Context, id int64, actor, comment string) (*entity.TravelApplication, error)

	ListByApplicant(applicantID string, limit, offset int) ([]*entity.TravelApplication, error)
	ListByStatus(status string, limit, offset int) ([]*entity.TravelApplication, error)
	History(id int64) ([]*entity.ApprovalRecord, error)
}

type applicationServiceImpl struct {
	appRepo      port.ApplicationRepository
	approvalRepo port.ApprovalRepository
	masterRepo   port.MasterRepository
	txManager    port.TransactionManager
	policy       validation.Policy
	logger       Logger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(
	appRepo port.ApplicationRepository,
	approvalRepo port.ApprovalRepository,
	masterRepo port.MasterRepository,
	txManager port.TransactionManager,
	policy validation.Policy,
	logger Logger,
) ApplicationService {
	return &applicationServiceImpl{
		appRepo:      appRepo,
		approvalRepo: approvalRepo,
		masterRepo:   masterRepo,
		txManager:    txManager,
		policy:       policy,
		logger:       logger,
	}
}

// CreateDraft opens a fresh empty application for the applicant.
func (s *applicationServiceImpl) CreateDraft(applicantID, department string) (*entity.TravelApplication, error) {
	now := time.Now()
	app := &entity.TravelApplication{
		ApplicantID: applicantID,
		Department:  department,
		Status:      entity.StatusDraft,
		Draft:       draft.NewDraft(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.appRepo.Create(nil, app); err != nil {
		s.logger.Error("Failed to create draft", "error", err, "applicant_id", applicantID)
		return nil, err
	}
	s.logger.Info("Draft created", "id", app.ID, "applicant_id", applicantID)
	return app, nil
}

// Get retrieves one application by id.
func (s *applicationServiceImpl) Get(id int64) (*entity.TravelApplication, error) {
	app, err := s.appRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

// SaveDraft replaces the draft content of an application still in DRAFT.
// Advances are recomputed from the booking lists before persisting, so the
// stored totals never drift from the bookings.
func (s *applicationServiceImpl) SaveDraft(id int64, applicantID string, d entity.TravelApplicationDraft) (*entity.TravelApplication, error) {
	app, err := s.editable(id, applicantID)
	if err != nil {
		return nil, err
	}

	modes, err := s.modeCatalog()
	if err != nil {
		return nil, err
	}

	app.Draft = d
	draft.RecomputeAdvances(&app.Draft, modes)
	app.UpdatedAt = time.Now()

	if err := s.appRepo.Update(nil, app); err != nil {
		s.logger.Error("Failed to save draft", "error", err, "id", id)
		return nil, err
	}
	return app, nil
}

// RecomputeAdvance rederives the per-trip advances and the header advance
// amount from the current booking lists.
func (s *applicationServiceImpl) RecomputeAdvance(id int64, applicantID string) (*entity.TravelApplication, error) {
	app, err := s.editable(id, applicantID)
	if err != nil {
		return nil, err
	}

	modes, err := s.modeCatalog()
	if err != nil {
		return nil, err
	}

	draft.RecomputeAdvances(&app.Draft, modes)
	app.UpdatedAt = time.Now()

	if err := s.appRepo.Update(nil, app); err != nil {
		s.logger.Error("Failed to recompute advance", "error", err, "id", id)
		return nil, err
	}
	return app, nil
}

// CheckDraft runs the full rule set against the current draft without
// changing anything. The report includes warnings and info findings.
func (s *applicationServiceImpl) CheckDraft(id int64) ([]validation.FieldError, error) {
	app, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	modes, err := s.modeCatalog()
	if err != nil {
		return nil, err
	}
	return validation.Validate(app.Draft, modes, s.policy, time.Now()), nil
}

// Submit validates the draft and, when nothing blocks, moves the
// application into the approval chain. The returned findings include any
// warnings and info notes that rode along with a successful submit.
func (s *applicationServiceImpl) Submit(ctx context.Context, id int64, applicantID string) (*entity.TravelApplication, []validation.FieldError, error) {
	app, err := s.editable(id, applicantID)
	if err != nil {
		return nil, nil, err
	}

	modes, err := s.modeCatalog()
	if err != nil {
		return nil, nil, err
	}

	draft.RecomputeAdvances(&app.Draft, modes)
	findings := validation.Validate(app.Draft, modes, s.policy, time.Now())
	if validation.HasBlocking(findings) {
		return nil, findings, &ValidationError{Errors: findings}
	}

	app.RequiresCEO = app.TotalEstimatedCost().GreaterThan(s.policy.CEOCostThreshold)

	machine := workflow.NewApplicationMachine(workflow.State(app.Status), app.RequiresCEO)
	if err := machine.Fire(ctx, workflow.TriggerSubmit); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	from := app.Status
	app.Status = machine.State().String()
	app.SubmittedAt = &now
	app.UpdatedAt = now

	err = s.txManager.WithTransaction(func(tx *sql.Tx) error {
		if err := s.appRepo.Update(tx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		rec := &entity.ApprovalRecord{
			ApplicationID: app.ID,
			Actor:         applicantID,
			Role:          entity.RoleEmployee,
			Action:        entity.ActionSubmit,
			FromStatus:    from,
			ToStatus:      app.Status,
			CreatedAt:     now,
		}
		if err := s.approvalRepo.Create(tx, rec); err != nil {
			return fmt.Errorf("record submission: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit application", "error", err, "id", id)
		return nil, nil, err
	}

	s.logger.Info("Application submitted",
		"id", app.ID, "applicant_id", applicantID,
		"total_cost", app.TotalEstimatedCost().String(), "requires_ceo", app.RequiresCEO)
	return app, findings, nil
}

// Approve advances the application one level. The actor's role must match
// the level currently pending.
func (s *applicationServiceImpl) Approve(ctx context.Context, id int64, actor, role, comment string) (*entity.TravelApplication, error) {
	return s.decide(ctx, id, actor, role, comment, workflow.TriggerApprove, entity.ActionApprove)
}

// Reject refuses the application at the level currently pending.
func (s *applicationServiceImpl) Reject(ctx context.Context, id int64, actor, role, comment string) (*entity.TravelApplication, error) {
	return s.decide(ctx, id, actor, role, comment, workflow.TriggerReject, entity.ActionReject)
}

// Cancel withdraws the application. Only the applicant can cancel, and only
// before the manager has acted.
func (s *applicationServiceImpl) Cancel(ctx context.Context, id int64, applicantID, comment string) (*entity.TravelApplication, error) {
	app, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != applicantID {
		return nil, ErrForbidden
	}
	return s.fireAndRecord(ctx, app, applicantID, entity.RoleEmployee, comment, workflow.TriggerCancel, entity.ActionCancel)
}

// Process marks the fully approved application as taken up by the travel
// desk for ticketing.
func (s *applicationServiceImpl) Process(ctx context.Context, id int64, actor, comment string) (*entity.TravelApplication, error) {
	return s.decide(ctx, id, actor, entity.RoleTravelDesk, comment, workflow.TriggerProcess, entity.ActionProcess)
}

// Close ends the lifecycle after travel completes and claims settle.
func (s *applicationServiceImpl) Close(ctx context.Context, id int64, actor, comment string) (*entity.TravelApplication, error) {
	return s.decide(ctx, id, actor, entity.RoleTravelDesk, comment, workflow.TriggerClose, entity.ActionClose)
}

// ListByApplicant returns the applicant's applications, newest first.
func (s *applicationServiceImpl) ListByApplicant(applicantID string, limit, offset int) ([]*entity.TravelApplication, error) {
	return s.appRepo.ListByApplicant(applicantID, limit, offset)
}

// ListByStatus returns applications in one status, oldest first, which is
// the order approvers work their queue in.
func (s *applicationServiceImpl) ListByStatus(status string, limit, offset int) ([]*entity.TravelApplication, error) {
	return s.appRepo.ListByStatus(status, limit, offset)
}

// History returns the application's approval trail, oldest first.
func (s *applicationServiceImpl) History(id int64) ([]*entity.ApprovalRecord, error) {
	app, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.approvalRepo.ListByApplication(app.ID)
}

// decide applies one approval-chain action after checking that the actor's
// role is the one the application is waiting on.
func (s *applicationServiceImpl) decide(ctx context.Context, id int64, actor, role, comment string, trigger workflow.Trigger, action string) (*entity.TravelApplication, error) {
	app, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	pending := workflow.PendingRole(workflow.State(app.Status), app.RequiresCEO)
	if pending == "" || pending != role {
		return nil, ErrForbidden
	}
	return s.fireAndRecord(ctx, app, actor, role, comment, trigger, action)
}

func (s *applicationServiceImpl) fireAndRecord(ctx context.Context, app *entity.TravelApplication, actor, role, comment string, trigger workflow.Trigger, action string) (*entity.TravelApplication, error) {
	machine := workflow.NewApplicationMachine(workflow.State(app.Status), app.RequiresCEO)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}

	now := time.Now()
	from := app.Status
	app.Status = machine.State().String()
	app.UpdatedAt = now

	err := s.txManager.WithTransaction(func(tx *sql.Tx) error {
		if err := s.appRepo.Update(tx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		rec := &entity.ApprovalRecord{
			ApplicationID: app.ID,
			Actor:         actor,
			Role:          role,
			Action:        action,
			FromStatus:    from,
			ToStatus:      app.Status,
			Comment:       comment,
			CreatedAt:     now,
		}
		if err := s.approvalRepo.Create(tx, rec); err != nil {
			return fmt.Errorf("record decision: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to record decision",
			"error", err, "id", app.ID, "action", action)
		return nil, err
	}

	s.logger.Info("Application transitioned",
		"id", app.ID, "action", action, "from", from, "to", app.Status, "actor", actor)
	return app, nil
}

// editable loads the application and verifies the actor may still edit it.
func (s *applicationServiceImpl) editable(id int64, applicantID string) (*entity.TravelApplication, error) {
	app, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != applicantID {
		return nil, ErrForbidden
	}
	if app.Status != entity.StatusDraft {
		return nil, ErrNotEditable
	}
	return app, nil
}

func (s *applicationServiceImpl) modeCatalog() (draft.ModeCatalog, error) {
	modes, err := s.masterRepo.ListModes()
	if err != nil {
		return nil, fmt.Errorf("load travel modes: %w", err)
	}
	return draft.BuildModeCatalog(modes), nil
}
