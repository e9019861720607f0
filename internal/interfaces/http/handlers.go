package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hrops/traveldesk/internal/application/service"
	"github.com/hrops/traveldesk/internal/domain/entity"
	"github.com/hrops/traveldesk/internal/domain/workflow"
	"github.com/hrops/traveldesk/internal/export"
	"github.com/hrops/traveldesk/internal/session"
	"github.com/hrops/traveldesk/internal/transform"
	"github.com/hrops/traveldesk/internal/validation"
)

// Handlers contains all HTTP request handlers.
type Handlers struct {
	appService    service.ApplicationService
	masterService service.MasterDataService
	claimService  service.ClaimService
	statements    *export.StatementWriter
	logger        Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	appService service.ApplicationService,
	masterService service.MasterDataService,
	claimService service.ClaimService,
	statements *export.StatementWriter,
	logger Logger,
) *Handlers {
	return &Handlers{
		appService:    appService,
		masterService: masterService,
		claimService:  claimService,
		statements:    statements,
		logger:        logger,
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool                    `json:"success"`
	Data    interface{}             `json:"data,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// ApplicationResponse is a travel application in API responses. The draft
// content is rendered in the wire shape with one flat bookings list per trip.
type ApplicationResponse struct {
	ID                 int64                        `json:"id"`
	ApplicantID        string                       `json:"applicant_id"`
	Department         string                       `json:"department"`
	Status             string                       `json:"status"`
	PendingRole        string                       `json:"pending_role,omitempty"`
	RequiresCEO        bool                         `json:"requires_ceo_approval"`
	TotalEstimatedCost string                       `json:"total_estimated_cost"`
	Payload            transform.ApplicationPayload `json:"payload"`
	SubmittedAt        *string                      `json:"submitted_at,omitempty"`
	CreatedAt          string                       `json:"created_at"`
	UpdatedAt          string                       `json:"updated_at"`
}

func toApplicationResponse(app *entity.TravelApplication) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                 app.ID,
		ApplicantID:        app.ApplicantID,
		Department:         app.Department,
		Status:             app.Status,
		PendingRole:        workflow.PendingRole(workflow.State(app.Status), app.RequiresCEO),
		RequiresCEO:        app.RequiresCEO,
		TotalEstimatedCost: app.TotalEstimatedCost().String(),
		Payload:            transform.ToBackend(app.Draft),
		CreatedAt:          app.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          app.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if app.SubmittedAt != nil {
		t := app.SubmittedAt.UTC().Format(time.RFC3339)
		resp.SubmittedAt = &t
	}
	return resp
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps service errors onto HTTP statuses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   vErr.Error(),
			Errors:  vErr.Errors,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "application not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "not allowed"})
	case errors.Is(err, service.ErrNotEditable),
		errors.Is(err, service.ErrClaimsNotOpen),
		errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrGuardFailed):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid application id")
		return 0, false
	}
	return id, true
}

func currentSession(c *gin.Context) (*session.Session, bool) {
	sess, okSess := session.FromContext(c)
	if !okSess {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "no session"})
		return nil, false
	}
	return sess, true
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	ok(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// LoginRequest carries the identity asserted by the SSO gateway.
type LoginRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Name   string `json:"name"`
	Role   string `json:"role" binding:"required"`
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "user_id and role are required")
			return
		}
		switch req.Role {
		case entity.RoleEmployee, entity.RoleManager, entity.RoleCHRO, entity.RoleCEO, entity.RoleTravelDesk:
		default:
			badRequest(c, "unknown role")
			return
		}

		token, err := sessions.Issue(session.Session{UserID: req.UserID, Name: req.Name, Role: req.Role})
		if err != nil {
			h.respondError(c, err)
			return
		}
		ok(c, gin.H{"token": token, "role": req.Role})
	}
}

// CreateApplication handles POST /api/applications.
func (h *Handlers) CreateApplication(c *gin.Context) {
	sess, okSess := currentSession(c)
	if !okSess {
		return
	}

	var req struct {
		Department string `json:"department"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	app, err := h.appService.CreateDraft(sess.UserID, req.Department)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: toApplicationResponse(app)})
}

// ListApplications handles GET /api/applications. Employees see their own;
// a status query lets approvers and the travel desk work their queue.
func (h *Handlers) ListApplications(c *gin.Context) {
	sess, okSess := currentSession(c)
	if !okSess {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var apps []*entity.TravelApplication
	var err error
	if status := c.Query("status"); status != "" && sess.Role != entity.RoleEmployee {
		apps, err = h.appService.ListByStatus(status, limit, offset)
	} else {
		apps, err = h.appService.ListByApplicant(sess.UserID, limit, offset)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, toApplicationResponse(app))
	}
	ok(c, responses)
}

// GetApplication handles GET /api/applications/:id.
func (h *Handlers) GetApplication(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	app, err := h.appService.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, toApplicationResponse(app))
}

// SaveDraft handles PUT /api/applications/:id. The body is the wire-shaped
// payload; it is folded back into the typed draft before saving.
func (h *Handlers) SaveDraft(c *gin.Context) {
	sess, okSess := currentSession(c)
	if !okSess {
		return
	}
	id, okID := pathID(c)
	if !okID {
		return
	}

	var payload transform.ApplicationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid draft payload")
		return
	}

	d, err := transform.FromBackend(payload)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	app, err := h.appService.SaveDraft(id, sess.UserID, d)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, toApplicationResponse(app))
}

// ValidateDraft handles GET /api/applications/:id/validate.
func (h *Handlers) ValidateDraft(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	findings, err := h.appService.CheckDraft(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, gin.H{
		"errors":   findings,
		"blocking": validation.HasBlocking(findings),
	})
}

// AdvanceResponse is the derived advance view of one application.
type AdvanceResponse struct {
	AdvanceAmount string                     `json:"advance_amount"`
	Trips         []transform.AdvancePayload `json:"trips"`
}

// GetAdvance handles GET /travel/applications/:id/advance. The fare fields
// are derived from the booking lists, never edited directly.
func (h *Handlers) GetAdvance(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	app, err := h.appService.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	payload := transform.ToBackend(app.Draft)
	resp := AdvanceResponse{AdvanceAmount: app.Draft.AdvanceAmount.String()}
	for _, trip := range payload.TripDetails {
		resp.Trips = append(resp.Trips, trip.TravelAdvance)
	}
	ok(c, resp)
}

// RecomputeAdvance handles POST /travel/applications/:id/advance.
func (h *Handlers) RecomputeAdvance(c *gin.Context) {
	sess, okSess := currentSession(c)
	if !okSess {
		return
	}
	id, okID := pathID(c)
	if !okID {
		return
	}
	app, err := h.appService.RecomputeAdvance(id, sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, toApplicationResponse(app))
}

// Submit handles POST /api/applications/:id/submit. Blocking validation
// findings come back as 422 with the full report.
func (h *Handlers) Submit(c *gin.Context) {
	sess, okSess := currentSession(c)
	if !okSess {
		return
	}
	id, okID := pathID(c)
	if !okID {
		return
	}

	app, findings, err := h.appService.Submit(c.Request.Context(), id, sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toApplicationResponse(app),
		Errors:  findings,
	})
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

func (h *Handlers) decision(c *gin.Context, fn func(id int64, sess *session.Session, comment string) (*entity.TravelApplication, error)) {
	sess, okSess := currentSession(c)
	if !okSess {
		return
	}
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req decisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	app, err := fn(id, sess, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, toApplicationResponse(app))
}

// Approve handles POST /api/applications/:id/approve.
func (h *Handlers) Approve(c *gin.Context) {
	h.decision(c, func(id int64, sess *session.Session, comment string) (*entity.TravelApplication, error) {
		return h.appService.Approve(c.Request.Context(), id, sess.UserID, sess.Role, comment)
	})
}

// Reject handles POST /api/applications/:id/reject.
func (h *Handlers) Reject(c *gin.Context) {
	h.decision(c, func(id int64, sess *session.Session, comment string) (*entity.TravelApplication, error) {
		return h.appService.Reject(c.Request.Context(), id, sess.UserID, sess.Role, comment)
	})
}

// Cancel handles POST /api/applications/:id/cancel.
func (h *Handlers) Cancel(c *gin.Context) {
	h.decision(c, func(id int64, sess *session.Session, comment string) (*entity.TravelApplication, error) {
		return h.appService.Cancel(c.Request.Context(), id, sess.UserID, comment)
	})
}

// Process handles POST /api/applications/:id/process.
func (h *Handlers) Process(c *gin.Context) {
	h.decision(c, func(id int64, sess *session.Session, comment string) (*entity.TravelApplication, error) {
		if sess.Role != entity.RoleTravelDesk {
			return nil, service.ErrForbidden
		}
		return h.appService.Process(c.Request.Context(), id, sess.UserID, comment)
	})
}

// Close handles POST /api/applications/:id/close.
func (h *Handlers) Close(c *gin.Context) {
	h.decision(c, func(id int64, sess *session.Session, comment string) (*entity.TravelApplication, error) {
		if sess.Role != entity.RoleTravelDesk {
			return nil, service.ErrForbidden
		}
		return h.appService.Close(c.Request.Context(), id, sess.UserID, comment)
	})
}

// History handles GET /api/applications/:id/history.
func (h *Handlers) History(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	records, err := h.appService.History(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, records)
}

// ClaimRequest is the body for filing one expense claim.
type ClaimRequest struct {
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Amount      string `json:"amount" binding:"required"`
	ExpenseDate string `json:"expense_date" binding:"required"`
	ReceiptRef  string `json:"receipt_ref"`
}

// AddClaim handles POST /api/applications/:id/claims.
func (h *Handlers) AddClaim(c *gin.Context) {
	sess, okSess := currentSession(c)
	if !okSess {
		return
	}
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "category, amount and expense_date are required")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		badRequest(c, "amount must be a positive number")
		return
	}
	if _, err := time.Parse(entity.DateLayout, req.ExpenseDate); err != nil {
		badRequest(c, "expense_date must be YYYY-MM-DD")
		return
	}

	claim := &entity.ExpenseClaim{
		Category:    req.Category,
		Description: req.Description,
		Amount:      amount,
		ExpenseDate: req.ExpenseDate,
		ReceiptRef:  req.ReceiptRef,
	}
	if err := h.claimService.AddClaim(id, sess.UserID, claim); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: claim})
}

// ListClaims handles GET /api/applications/:id/claims.
func (h *Handlers) ListClaims(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	claims, err := h.claimService.Claims(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, claims)
}

// Reconciliation handles GET /api/applications/:id/reconciliation.
func (h *Handlers) Reconciliation(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	rec, err := h.claimService.Reconcile(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, rec)
}

// ExportReconciliation handles GET /api/applications/:id/reconciliation/export
// and streams the statement workbook as a download.
func (h *Handlers) ExportReconciliation(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	app, err := h.appService.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	rec, err := h.claimService.Reconcile(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	path, err := h.statements.Write(app, rec)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// Master data handlers

func (h *Handlers) ListModes(c *gin.Context) {
	modes, err := h.masterService.Modes()
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, modes)
}

func (h *Handlers) ListSubOptions(c *gin.Context) {
	options, err := h.masterService.SubOptions()
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, options)
}

func (h *Handlers) ListSubOptionsByMode(c *gin.Context) {
	modeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || modeID <= 0 {
		badRequest(c, "invalid mode id")
		return
	}
	options, err := h.masterService.SubOptionsByMode(modeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, options)
}

func (h *Handlers) ListLocations(c *gin.Context) {
	locations, err := h.masterService.Locations()
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, locations)
}

func (h *Handlers) ListGLCodes(c *gin.Context) {
	codes, err := h.masterService.GLCodes()
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, codes)
}

func (h *Handlers) ListGuestHouses(c *gin.Context) {
	houses, err := h.masterService.GuestHouses()
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, houses)
}

func (h *Handlers) ListPanelHotels(c *gin.Context) {
	hotels, err := h.masterService.PanelHotels()
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, hotels)
}
