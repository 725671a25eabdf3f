package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vvf-roster/backend/config"
	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/service"
	"vvf-roster/backend/pkg/response"
)

func rotationTestConfig() *config.Config {
	return &config.Config{
		Rotation: config.RotationConfig{SeedDate: "2026-01-01", SeedCode: "B6"},
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.UserResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock EventService ──

type mockEventService struct {
	createResult  *dto.EventResponse
	createErr     error
	updateResult  *dto.EventResponse
	updateErr     error
	getResult     *dto.EventResponse
	getErr        error
	rosterResult  *dto.DayRosterResponse
	rosterErr     error
	summaryResult *dto.RoleSummaryResponse
	summaryErr    error
	deleteErr     error
}

func (m *mockEventService) Create(_ context.Context, _ *dto.CreateEventRequest, _ string) (*dto.EventResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockEventService) Update(_ context.Context, _ string, _ *dto.UpdateEventRequest, _ string) (*dto.EventResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockEventService) GetByID(_ context.Context, _ string) (*dto.EventResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockEventService) DayRoster(_ context.Context, _ *dto.EventListRequest) (*dto.DayRosterResponse, error) {
	return m.rosterResult, m.rosterErr
}
func (m *mockEventService) RoleSummary(_ context.Context, _ *dto.EventListRequest) (*dto.RoleSummaryResponse, error) {
	return m.summaryResult, m.summaryErr
}
func (m *mockEventService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	result          *dto.EventResponse
	err             error
	candidates      *dto.CandidateListResponse
	candidatesErr   error
	lastActingGroup string
}

func (m *mockAssignmentService) Assign(_ context.Context, _, _ string, _ int, _ *dto.AssignRequest, actingGroup, _ string) (*dto.EventResponse, error) {
	m.lastActingGroup = actingGroup
	return m.result, m.err
}
func (m *mockAssignmentService) Unassign(_ context.Context, _, _ string, _ int, actingGroup, _ string) (*dto.EventResponse, error) {
	m.lastActingGroup = actingGroup
	return m.result, m.err
}
func (m *mockAssignmentService) Entrust(_ context.Context, _, _ string, _ int, actingGroup, _ string) (*dto.EventResponse, error) {
	m.lastActingGroup = actingGroup
	return m.result, m.err
}
func (m *mockAssignmentService) RevokeEntrust(_ context.Context, _, _ string, _ int, actingGroup, _ string) (*dto.EventResponse, error) {
	m.lastActingGroup = actingGroup
	return m.result, m.err
}
func (m *mockAssignmentService) Candidates(_ context.Context, _, _ string, _ int, actingGroup string) (*dto.CandidateListResponse, error) {
	m.lastActingGroup = actingGroup
	return m.candidates, m.candidatesErr
}

// ── Mock ApprovalService ──

type mockApprovalService struct {
	setResult *dto.DayApprovalResponse
	setErr    error
	getResult *dto.DayApprovalResponse
	getErr    error
}

func (m *mockApprovalService) SetDayApproval(_ context.Context, _ string, _ *dto.SetDayApprovalRequest, _ string) (*dto.DayApprovalResponse, error) {
	return m.setResult, m.setErr
}
func (m *mockApprovalService) GetDayApproval(_ context.Context, _ string) (*dto.DayApprovalResponse, error) {
	return m.getResult, m.getErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDayRoster(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportRotationICS(_ context.Context, _ *dto.RotationProjectionRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "COMPILATORE")
	c.Set("group", "B")
	c.Set("token_id", "test-jti")
	c.Set("token_expires_at", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "compilatore.b@vvf.local",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "compilatore.b@vvf.local",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrWrongPassword})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "oldpassword",
		NewPassword: "newpassword1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEventHandler_Create_Success(t *testing.T) {
	mock := &mockEventService{createResult: &dto.EventResponse{ID: "event-1"}}
	h := NewEventHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events", jsonBody(dto.CreateEventRequest{
		Code:       "VIGILANZA STADIO",
		Location:   "Stadio",
		Date:       "2026-01-05",
		TimeWindow: "14:00 - 20:00",
		Requirements: []dto.RequirementRequest{
			{Role: "VIG", Qty: 2},
		},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/events", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestEventHandler_Create_MissingRequirements(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events", jsonBody(dto.CreateEventRequest{
		Code:       "X",
		Location:   "Y",
		Date:       "2026-01-05",
		TimeWindow: "14:00 - 20:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/events", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEventHandler_DayRoster_MissingDate(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)

	r := gin.New()
	r.GET("/events", h.DayRoster)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEventHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrEventNotFound, 404, 13001},
		{"RequirementNotFound", service.ErrRequirementNotFound, 404, 13002},
		{"InvalidDate", service.ErrInvalidDate, 400, 13003},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEventHandler(&mockEventService{getErr: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/events/event-1", nil)

			r := gin.New()
			r.GET("/events/:id", h.Get)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

const seatPath = "/events/event-1/requirements/req-1/slots/0"

func seatRouter(h *AssignmentHandler) *gin.Engine {
	r := gin.New()
	grp := r.Group("", func(c *gin.Context) { setAuth(c) })
	grp.PUT("/events/:id/requirements/:reqId/slots/:slot/assign", h.Assign)
	grp.PUT("/events/:id/requirements/:reqId/slots/:slot/unassign", h.Unassign)
	grp.PUT("/events/:id/requirements/:reqId/slots/:slot/entrust", h.Entrust)
	grp.PUT("/events/:id/requirements/:reqId/slots/:slot/revoke-entrust", h.RevokeEntrust)
	grp.GET("/events/:id/requirements/:reqId/slots/:slot/candidates", h.Candidates)
	return r
}

func TestAssignmentHandler_Assign_Success(t *testing.T) {
	mock := &mockAssignmentService{result: &dto.EventResponse{ID: "event-1"}}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", seatPath+"/assign", jsonBody(dto.AssignRequest{
		OperatorID: "33333333-3333-3333-3333-333333333333",
	}))
	req.Header.Set("Content-Type", "application/json")

	seatRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	// The acting group must come from the token, not the request body.
	if mock.lastActingGroup != "B" {
		t.Errorf("expected acting group B, got %q", mock.lastActingGroup)
	}
}

func TestAssignmentHandler_Assign_BadOperatorID(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", seatPath+"/assign", jsonBody(dto.AssignRequest{
		OperatorID: "not-a-uuid",
	}))
	req.Header.Set("Content-Type", "application/json")

	seatRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAssignmentHandler_Assign_BadSlotIndex(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/event-1/requirements/req-1/slots/abc/assign", jsonBody(dto.AssignRequest{
		OperatorID: "33333333-3333-3333-3333-333333333333",
	}))
	req.Header.Set("Content-Type", "application/json")

	seatRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAssignmentHandler_Unassign_NotAssigner(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{err: service.ErrNotAssigner})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", seatPath+"/unassign", nil)

	seatRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14003 {
		t.Errorf("expected error code 14003, got %d", resp.Code)
	}
}

func TestAssignmentHandler_Candidates_Success(t *testing.T) {
	mock := &mockAssignmentService{candidates: &dto.CandidateListResponse{
		EventID:       "event-1",
		RequirementID: "req-1",
	}}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", seatPath+"/candidates", nil)

	seatRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ApprovalHandler Tests
// ═══════════════════════════════════════════════════════════

func TestApprovalHandler_Set_DayIncomplete(t *testing.T) {
	h := NewApprovalHandler(&mockApprovalService{setErr: service.ErrDayIncomplete})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/days/2026-01-05/approval", jsonBody(dto.SetDayApprovalRequest{
		Approved: true,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/days/:date/approval", func(c *gin.Context) {
		setAuth(c)
		h.Set(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestApprovalHandler_Get_Success(t *testing.T) {
	h := NewApprovalHandler(&mockApprovalService{
		getResult: &dto.DayApprovalResponse{Date: "2026-01-05", Approved: true},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/days/2026-01-05/approval", nil)

	r := gin.New()
	r.GET("/days/:date/approval", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RotationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRotationHandler_Day_Success(t *testing.T) {
	svc, err := service.NewRotationService(rotationTestConfig(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	h := NewRotationHandler(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/rotation/day?date=2026-01-01", nil)

	r := gin.New()
	r.GET("/rotation/day", h.Day)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRotationHandler_Day_MissingDate(t *testing.T) {
	svc, err := service.NewRotationService(rotationTestConfig(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	h := NewRotationHandler(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/rotation/day", nil)

	r := gin.New()
	r.GET("/rotation/day", h.Day)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_DayRoster_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "Servizi_VVF_A3_2026-01-05.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/day?date=2026-01-05", nil)

	r := gin.New()
	r.GET("/export/day", h.DayRoster)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_DayRoster_MissingDate(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/day", nil)

	r := gin.New()
	r.GET("/export/day", h.DayRoster)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_DayRoster_NoEvents(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoEvents})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/day?date=2026-06-01", nil)

	r := gin.New()
	r.GET("/export/day", h.DayRoster)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportHandler_RotationICS_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR"),
		filename: "Rotazione_VVF_2026-01-01.ics",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/rotation.ics?from=2026-01-01&days=7", nil)

	r := gin.New()
	r.GET("/export/rotation.ics", h.RotationICS)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != icsContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
}
