package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrops/traveldesk/internal/domain/entity"
	"github.com/hrops/traveldesk/internal/domain/workflow"
	"github.com/hrops/traveldesk/internal/validation"
)

// Mock repositories

type mockAppRepo struct {
	getByIDFunc func(id int64) (*entity.TravelApplication, error)
	created     []*entity.TravelApplication
	updated     []*entity.TravelApplication
}

func (m *mockAppRepo) Create(tx *sql.Tx, app *entity.TravelApplication) error {
	app.ID = int64(len(m.created) + 1)
	m.created = append(m.created, app)
	return nil
}

func (m *mockAppRepo) Update(tx *sql.Tx, app *entity.TravelApplication) error {
	m.updated = append(m.updated, app)
	return nil
}

func (m *mockAppRepo) GetByID(id int64) (*entity.TravelApplication, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return nil, nil
}

func (m *mockAppRepo) ListByApplicant(applicantID string, limit, offset int) ([]*entity.TravelApplication, error) {
	return nil, nil
}

func (m *mockAppRepo) ListByStatus(status string, limit, offset int) ([]*entity.TravelApplication, error) {
	return nil, nil
}

func (m *mockAppRepo) ListPendingSince(cutoff time.Time) ([]*entity.TravelApplication, error) {
	return nil, nil
}

type mockApprovalRepo struct {
	records []*entity.ApprovalRecord
}

func (m *mockApprovalRepo) Create(tx *sql.Tx, rec *entity.ApprovalRecord) error {
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)
	return nil
}

func (m *mockApprovalRepo) ListByApplication(applicationID int64) ([]*entity.ApprovalRecord, error) {
	return m.records, nil
}

type mockMasterRepo struct{}

func (m *mockMasterRepo) ListModes() ([]entity.TravelMode, error) {
	return []entity.TravelMode{
		{ID: 1, Code: entity.ModeCodeFlight, Label: "Flight", Category: entity.CategoryTicketing},
		{ID: 2, Code: entity.ModeCodeTrain, Label: "Train", Category: entity.CategoryTicketing},
		{ID: 3, Code: entity.ModeCodeBus, Label: "Bus", Category: entity.CategoryTicketing},
		{ID: 4, Code: entity.ModeCodeCar, Label: "Car", Category: entity.CategoryConveyance},
	}, nil
}

func (m *mockMasterRepo) ListSubOptions() ([]entity.TravelSubOption, error) {
	return []entity.TravelSubOption{
		{ID: 1, ModeID: 1, Label: "Economy"},
		{ID: 2, ModeID: 1, Label: "Business"},
		{ID: 3, ModeID: 2, Label: "Sleeper"},
	}, nil
}

func (m *mockMasterRepo) ListLocations() ([]entity.Location, error)     { return nil, nil }
func (m *mockMasterRepo) ListGLCodes() ([]entity.GLCode, error)         { return nil, nil }
func (m *mockMasterRepo) ListGuestHouses() ([]entity.GuestHouse, error) { return nil, nil }
func (m *mockMasterRepo) ListPanelHotels() ([]entity.PanelHotel, error) { return nil, nil }

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(fn func(*sql.Tx) error) error {
	return fn(nil)
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestService(appRepo *mockAppRepo, approvalRepo *mockApprovalRepo) ApplicationService {
	return NewApplicationService(
		appRepo, approvalRepo, &mockMasterRepo{}, &mockTxManager{},
		validation.DefaultPolicy(), nopLogger{},
	)
}

// completeDraft builds a draft that passes every blocking rule, with one
// flight departing far enough out to clear the lead-time window.
func completeDraft(flightCost decimal.Decimal) entity.TravelApplicationDraft {
	departure := time.Now().AddDate(0, 0, 30).Format(entity.DateLayout)
	return entity.TravelApplicationDraft{
		Purpose:         "Quarterly planning workshop",
		InternalOrder:   "IO-4410",
		SanctionNumber:  "SN-2026-118",
		GeneralLedgerID: 3,
		Trips: []entity.Trip{{
			ClientKey:     "trip-1",
			TripMode:      entity.TripModeOneWay,
			FromLocation:  1,
			ToLocation:    2,
			DepartureDate: departure,
			TripPurpose:   "Attend workshop",
			GuestCount:    1,
			Ticketing: []entity.TicketingBooking{{
				ClientKey:     "tkt-1",
				BookingType:   1,
				FromLocation:  1,
				ToLocation:    2,
				DepartureDate: departure,
				DepartureTime: "09:30",
				EstimatedCost: flightCost,
			}},
		}},
	}
}

func draftApplication(id int64, applicantID string, d entity.TravelApplicationDraft) *entity.TravelApplication {
	return &entity.TravelApplication{
		ID:          id,
		ApplicantID: applicantID,
		Department:  "Engineering",
		Status:      entity.StatusDraft,
		Draft:       d,
	}
}

func TestCreateDraft(t *testing.T) {
	appRepo := &mockAppRepo{}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	app, err := svc.CreateDraft("emp-7", "Engineering")
	require.NoError(t, err)
	assert.Equal(t, int64(1), app.ID)
	assert.Equal(t, entity.StatusDraft, app.Status)
	assert.Empty(t, app.Draft.Trips)
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(&mockAppRepo{}, &mockApprovalRepo{})

	_, err := svc.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDraftOwnership(t *testing.T) {
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			return draftApplication(id, "emp-7", entity.TravelApplicationDraft{}), nil
		},
	}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	_, err := svc.SaveDraft(1, "someone-else", entity.TravelApplicationDraft{})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, appRepo.updated)
}

func TestSaveDraftAfterSubmitRefused(t *testing.T) {
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			app := draftApplication(id, "emp-7", entity.TravelApplicationDraft{})
			app.Status = entity.StatusSubmitted
			return app, nil
		},
	}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	_, err := svc.SaveDraft(1, "emp-7", entity.TravelApplicationDraft{})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestSaveDraftRecomputesAdvance(t *testing.T) {
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			return draftApplication(id, "emp-7", entity.TravelApplicationDraft{}), nil
		},
	}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	app, err := svc.SaveDraft(1, "emp-7", completeDraft(decimal.NewFromInt(4000)))
	require.NoError(t, err)
	require.Len(t, appRepo.updated, 1)
	assert.True(t, app.Draft.Trips[0].TravelAdvance.AirFare.Equal(decimal.NewFromInt(4000)))
	assert.True(t, app.Draft.AdvanceAmount.Equal(decimal.NewFromInt(4000)))
}

func TestSubmitBlockingValidation(t *testing.T) {
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			return draftApplication(id, "emp-7", entity.TravelApplicationDraft{}), nil
		},
	}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	_, findings, err := svc.Submit(context.Background(), 1, "emp-7")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, validation.HasBlocking(findings))
	assert.Empty(t, appRepo.updated, "blocked submission must not persist")
}

func TestSubmitSuccess(t *testing.T) {
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			return draftApplication(id, "emp-7", completeDraft(decimal.NewFromInt(4000))), nil
		},
	}
	approvalRepo := &mockApprovalRepo{}
	svc := newTestService(appRepo, approvalRepo)

	app, findings, err := svc.Submit(context.Background(), 1, "emp-7")
	require.NoError(t, err)
	assert.False(t, validation.HasBlocking(findings))

	assert.Equal(t, entity.StatusSubmitted, app.Status)
	assert.False(t, app.RequiresCEO)
	require.NotNil(t, app.SubmittedAt)

	require.Len(t, approvalRepo.records, 1)
	rec := approvalRepo.records[0]
	assert.Equal(t, entity.ActionSubmit, rec.Action)
	assert.Equal(t, entity.RoleEmployee, rec.Role)
	assert.Equal(t, entity.StatusDraft, rec.FromStatus)
	assert.Equal(t, entity.StatusSubmitted, rec.ToStatus)
}

func TestSubmitFlagsCEOEscalation(t *testing.T) {
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			return draftApplication(id, "emp-7", completeDraft(decimal.NewFromInt(12000))), nil
		},
	}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	app, findings, err := svc.Submit(context.Background(), 1, "emp-7")
	require.NoError(t, err)

	assert.True(t, app.RequiresCEO)
	infos := 0
	for _, f := range findings {
		if f.Severity == validation.SeverityInfo {
			infos++
		}
	}
	assert.Equal(t, 1, infos, "expensive flight should ride along as info")
}

func reviewApp(status string, requiresCEO bool) *mockAppRepo {
	return &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			app := draftApplication(id, "emp-7", completeDraft(decimal.NewFromInt(4000)))
			app.Status = status
			app.RequiresCEO = requiresCEO
			return app, nil
		},
	}
}

func TestApproveWrongRole(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusSubmitted, false), &mockApprovalRepo{})

	_, err := svc.Approve(context.Background(), 1, "chro-1", entity.RoleCHRO, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveByManager(t *testing.T) {
	approvalRepo := &mockApprovalRepo{}
	svc := newTestService(reviewApp(entity.StatusSubmitted, false), approvalRepo)

	app, err := svc.Approve(context.Background(), 1, "mgr-1", entity.RoleManager, "ok")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusManagerApproved, app.Status)

	require.Len(t, approvalRepo.records, 1)
	assert.Equal(t, entity.ActionApprove, approvalRepo.records[0].Action)
	assert.Equal(t, "ok", approvalRepo.records[0].Comment)
}

func TestApproveRoutesThroughCEO(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusCHROApproved, true), &mockApprovalRepo{})

	app, err := svc.Approve(context.Background(), 1, "ceo-1", entity.RoleCEO, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCEOApproved, app.Status)
}

func TestProcessSkipsCEOBelowThreshold(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusCHROApproved, false), &mockApprovalRepo{})

	app, err := svc.Process(context.Background(), 1, "desk-1", "booking tickets")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusTravelDesk, app.Status)
}

func TestApproveRefusedWhenCEONotRequired(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusCHROApproved, false), &mockApprovalRepo{})

	// Below the threshold the pending role is the travel desk, whose action
	// is PROCESS; an APPROVE from it hits the CEO guard.
	_, err := svc.Approve(context.Background(), 1, "desk-1", entity.RoleTravelDesk, "")
	assert.ErrorIs(t, err, workflow.ErrGuardFailed)
}

func TestRejectByCHRO(t *testing.T) {
	approvalRepo := &mockApprovalRepo{}
	svc := newTestService(reviewApp(entity.StatusManagerApproved, false), approvalRepo)

	app, err := svc.Reject(context.Background(), 1, "chro-1", entity.RoleCHRO, "no budget")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, app.Status)
	assert.Equal(t, "no budget", approvalRepo.records[0].Comment)
}

func TestCancelOnlyByApplicant(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusSubmitted, false), &mockApprovalRepo{})

	_, err := svc.Cancel(context.Background(), 1, "someone-else", "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelAfterManagerActedRefused(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusManagerApproved, false), &mockApprovalRepo{})

	_, err := svc.Cancel(context.Background(), 1, "emp-7", "plans changed")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestCancelSubmitted(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusSubmitted, false), &mockApprovalRepo{})

	app, err := svc.Cancel(context.Background(), 1, "emp-7", "plans changed")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, app.Status)
}

func TestCloseFromTravelDesk(t *testing.T) {
	svc := newTestService(reviewApp(entity.StatusTravelDesk, false), &mockApprovalRepo{})

	app, err := svc.Close(context.Background(), 1, "desk-1", "trip settled")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusClosed, app.Status)
}

func TestCheckDraftReportsWithoutMutating(t *testing.T) {
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			return draftApplication(id, "emp-7", entity.TravelApplicationDraft{}), nil
		},
	}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	findings, err := svc.CheckDraft(1)
	require.NoError(t, err)
	assert.True(t, validation.HasBlocking(findings))
	assert.Empty(t, appRepo.updated)
}

func TestSubmitRepoErrorPropagates(t *testing.T) {
	dbErr := errors.New("disk full")
	appRepo := &mockAppRepo{
		getByIDFunc: func(id int64) (*entity.TravelApplication, error) {
			return nil, dbErr
		},
	}
	svc := newTestService(appRepo, &mockApprovalRepo{})

	_, _, err := svc.Submit(context.Background(), 1, "emp-7")
	assert.ErrorIs(t, err, dbErr)
}
