package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/application/service"
	"github.com/hrops/traveldesk/internal/domain/entity"
	"github.com/hrops/traveldesk/internal/export"
	"github.com/hrops/traveldesk/internal/session"
	"github.com/hrops/traveldesk/internal/validation"
)

// Mock services

type mockAppService struct {
	getFunc     func(id int64) (*entity.TravelApplication, error)
	submitFunc  func(id int64, applicantID string) (*entity.TravelApplication, []validation.FieldError, error)
	approveFunc func(id int64, actor, role, comment string) (*entity.TravelApplication, error)
}

func (m *mockAppService) CreateDraft(applicantID, department string) (*entity.TravelApplication, error) {
	return &entity.TravelApplication{ID: 1, ApplicantID: applicantID, Department: department, Status: entity.StatusDraft}, nil
}

func (m *mockAppService) Get(id int64) (*entity.TravelApplication, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return nil, service.ErrNotFound
}

func (m *mockAppService) SaveDraft(id int64, applicantID string, d entity.TravelApplicationDraft) (*entity.TravelApplication, error) {
	return &entity.TravelApplication{ID: id, ApplicantID: applicantID, Status: entity.StatusDraft, Draft: d}, nil
}

func (m *mockAppService) RecomputeAdvance(id int64, applicantID string) (*entity.TravelApplication, error) {
	return m.Get(id)
}

func (m *mockAppService) CheckDraft(id int64) ([]validation.FieldError, error) {
	return nil, nil
}

func (m *mockAppService) Submit(ctx context.Context, id int64, applicantID string) (*entity.TravelApplication, []validation.FieldError, error) {
	if m.submitFunc != nil {
		return m.submitFunc(id, applicantID)
	}
	return nil, nil, service.ErrNotFound
}

func (m *mockAppService) Approve(ctx context.Context, id int64, actor, role, comment string) (*entity.TravelApplication, error) {
	if m.approveFunc != nil {
		return m.approveFunc(id, actor, role, comment)
	}
	return nil, service.ErrForbidden
}

func (m *mockAppService) Reject(ctx context.Context, id int64, actor, role, comment string) (*entity.TravelApplication, error) {
	return nil, service.ErrForbidden
}

func (m *mockAppService) Cancel(ctx context.Context, id int64, applicantID, comment string) (*entity.TravelApplication, error) {
	return nil, service.ErrForbidden
}

func (m *mockAppService) Process(ctx context.Context, id int64, actor, comment string) (*entity.TravelApplication, error) {
	return nil, service.ErrForbidden
}

func (m *mockAppService) Close(ctx context.Context, id int64, actor, comment string) (*entity.TravelApplication, error) {
	return nil, service.ErrForbidden
}

func (m *mockAppService) ListByApplicant(applicantID string, limit, offset int) ([]*entity.TravelApplication, error) {
	return nil, nil
}

func (m *mockAppService) ListByStatus(status string, limit, offset int) ([]*entity.TravelApplication, error) {
	return nil, nil
}

func (m *mockAppService) History(id int64) ([]*entity.ApprovalRecord, error) {
	return nil, nil
}

type mockMasterService struct{}

func (m *mockMasterService) Modes() ([]entity.TravelMode, error) {
	return []entity.TravelMode{{ID: 1, Code: entity.ModeCodeFlight, Label: "Flight"}}, nil
}
func (m *mockMasterService) SubOptions() ([]entity.TravelSubOption, error) { return nil, nil }
func (m *mockMasterService) SubOptionsByMode(modeID int64) ([]entity.TravelSubOption, error) {
	return []entity.TravelSubOption{{ID: 1, ModeID: modeID, Label: "Economy"}}, nil
}
func (m *mockMasterService) Locations() ([]entity.Location, error)     { return nil, nil }
func (m *mockMasterService) GLCodes() ([]entity.GLCode, error)         { return nil, nil }
func (m *mockMasterService) GuestHouses() ([]entity.GuestHouse, error) { return nil, nil }
func (m *mockMasterService) PanelHotels() ([]entity.PanelHotel, error) { return nil, nil }

type mockClaimService struct{}

func (m *mockClaimService) AddClaim(id int64, applicantID string, claim *entity.ExpenseClaim) error {
	return service.ErrClaimsNotOpen
}
func (m *mockClaimService) Claims(id int64) ([]*entity.ExpenseClaim, error) { return nil, nil }
func (m *mockClaimService) Reconcile(id int64) (*entity.Reconciliation, error) {
	return &entity.Reconciliation{ApplicationID: id}, nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestServer(t *testing.T, appSvc *mockAppService) (*Server, string) {
	t.Helper()
	sessions := session.NewManager("test-secret", time.Hour)
	srv := NewServer(
		ServerConfig{Host: "127.0.0.1", Port: 0},
		sessions,
		appSvc,
		&mockMasterService{},
		&mockClaimService{},
		export.NewStatementWriter("Acme", t.TempDir(), zap.NewNop()),
		nopLogger{},
	)
	token, err := sessions.Issue(session.Session{UserID: "emp-7", Name: "Priya", Role: entity.RoleEmployee})
	require.NoError(t, err)
	return srv, token
}

func doRequest(srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheckIsPublic(t *testing.T) {
	srv, _ := newTestServer(t, &mockAppService{})

	w := doRequest(srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t, &mockAppService{})

	w := doRequest(srv, http.MethodGet, "/travel/applications/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t, &mockAppService{})

	w := doRequest(srv, http.MethodPost, "/auth/login", "", jsonBody{"user_id": "emp-7", "role": "employee"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	w = doRequest(srv, http.MethodPost, "/auth/login", "", jsonBody{"user_id": "emp-7", "role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetApplication(t *testing.T) {
	appSvc := &mockAppService{
		getFunc: func(id int64) (*entity.TravelApplication, error) {
			return &entity.TravelApplication{
				ID:          id,
				ApplicantID: "emp-7",
				Status:      entity.StatusSubmitted,
				Draft: entity.TravelApplicationDraft{
					Purpose: "Client visit",
					Trips:   []entity.Trip{{ClientKey: "trip-1", TripMode: entity.TripModeOneWay}},
				},
			}, nil
		},
	}
	srv, token := newTestServer(t, appSvc)

	w := doRequest(srv, http.MethodGet, "/travel/applications/7", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    ApplicationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(7), resp.Data.ID)
	assert.Equal(t, "manager", resp.Data.PendingRole)
	require.Len(t, resp.Data.Payload.TripDetails, 1)
}

func TestGetApplicationNotFound(t *testing.T) {
	srv, token := newTestServer(t, &mockAppService{})

	w := doRequest(srv, http.MethodGet, "/travel/applications/99", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitBlockingReturns422(t *testing.T) {
	appSvc := &mockAppService{
		submitFunc: func(id int64, applicantID string) (*entity.TravelApplication, []validation.FieldError, error) {
			findings := []validation.FieldError{{
				Field: "purpose", Message: "purpose is required", Severity: validation.SeverityBlocking,
			}}
			return nil, findings, &service.ValidationError{Errors: findings}
		},
	}
	srv, token := newTestServer(t, appSvc)

	w := doRequest(srv, http.MethodPost, "/travel/applications/1/submit", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "purpose", resp.Errors[0].Field)
}

func TestApproveWrongRoleReturns403(t *testing.T) {
	srv, token := newTestServer(t, &mockAppService{})

	w := doRequest(srv, http.MethodPost, "/travel/applications/1/approve", token, jsonBody{"comment": "ok"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddClaimBeforeProcessingReturns409(t *testing.T) {
	srv, token := newTestServer(t, &mockAppService{})

	body := jsonBody{"category": "ticketing", "amount": "420.50", "expense_date": "2026-08-20"}
	w := doRequest(srv, http.MethodPost, "/travel/applications/1/claims", token, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddClaimRejectsBadAmount(t *testing.T) {
	srv, token := newTestServer(t, &mockAppService{})

	body := jsonBody{"category": "ticketing", "amount": "-5", "expense_date": "2026-08-20"}
	w := doRequest(srv, http.MethodPost, "/travel/applications/1/claims", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListModes(t *testing.T) {
	srv, token := newTestServer(t, &mockAppService{})

	w := doRequest(srv, http.MethodGet, "/master/travel-modes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []entity.TravelMode `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, entity.ModeCodeFlight, resp.Data[0].Code)
}

func TestListSubOptionsByMode(t *testing.T) {
	srv, token := newTestServer(t, &mockAppService{})

	w := doRequest(srv, http.MethodGet, "/master/travel-modes/1/sub-options", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(srv, http.MethodGet, "/master/travel-modes/abc/sub-options", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type jsonBody = map[string]interface{}
