package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "laptoploan/pkg/errors"
	httputil "laptoploan/pkg/http"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/middleware"
	"laptoploan/pkg/model"
	"laptoploan/pkg/session"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReservationService struct {
	borrowFunc      func(ctx context.Context, sess *session.Session, req *model.BorrowRequest) (*model.Reservation, error)
	statusBoardFunc func(ctx context.Context, from, to string) (*model.StatusWindow, error)
	listFunc        func(ctx context.Context, limit int, offset int64) ([]*model.ReservationView, int64, error)
	rejectFunc      func(ctx context.Context, id, reason string) (*model.ReservationView, error)
	approveFunc     func(ctx context.Context, id string) (*model.ReservationView, error)
	historyFunc     func(ctx context.Context, studentID string) (*model.History, error)
}

func (m *mockReservationService) BorrowForm(ctx context.Context, sess *session.Session) (*model.BorrowForm, error) {
	return &model.BorrowForm{Name: sess.UserName, StudentID: sess.StudentID}, nil
}

func (m *mockReservationService) Borrow(ctx context.Context, sess *session.Session, req *model.BorrowRequest) (*model.Reservation, error) {
	if m.borrowFunc != nil {
		return m.borrowFunc(ctx, sess, req)
	}
	return &model.Reservation{}, nil
}

func (m *mockReservationService) History(ctx context.Context, studentID string) (*model.History, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, studentID)
	}
	return &model.History{StudentID: studentID}, nil
}

func (m *mockReservationService) StatusBoard(ctx context.Context, from, to string) (*model.StatusWindow, error) {
	if m.statusBoardFunc != nil {
		return m.statusBoardFunc(ctx, from, to)
	}
	return &model.StatusWindow{Board: model.StatusBoard{}}, nil
}

func (m *mockReservationService) List(ctx context.Context, limit int, offset int64) ([]*model.ReservationView, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*model.ReservationView{}, 0, nil
}

func (m *mockReservationService) Approve(ctx context.Context, id string) (*model.ReservationView, error) {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id)
	}
	return &model.ReservationView{Reservation: &model.Reservation{ID: id}}, nil
}

func (m *mockReservationService) Reject(ctx context.Context, id, reason string) (*model.ReservationView, error) {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, id, reason)
	}
	return &model.ReservationView{Reservation: &model.Reservation{ID: id}}, nil
}

func (m *mockReservationService) MarkReturned(ctx context.Context, id string) (*model.ReservationView, error) {
	return &model.ReservationView{Reservation: &model.Reservation{ID: id, Status: model.StatusReturned}}, nil
}

func (m *mockReservationService) ForceCloseOverdue(ctx context.Context, id string) (*model.ReservationView, error) {
	return &model.ReservationView{Reservation: &model.Reservation{ID: id, Status: model.StatusReturned, Overdue: true}}, nil
}

func (m *mockReservationService) UserDetail(ctx context.Context, studentID string) (*model.UserDetail, error) {
	return nil, apperrors.NotFoundWithID("User", studentID).WithKey(locale.KeyUserNotFound)
}

const testSecret = "0123456789abcdef0123456789abcdef"

type testServer struct {
	router   *httprouter.Router
	sessions *session.Manager
	service  *mockReservationService
}

func newTestServer() *testServer {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	sessions := session.NewManager(session.Config{
		Secret:     testSecret,
		CookieName: "laptoploan_session",
		TTL:        time.Hour,
	})
	auth := middleware.NewAuth(sessions, log)
	svc := &mockReservationService{}

	router := httprouter.New()
	NewReservationHandler(svc, auth, log).RegisterRoutes(router)

	return &testServer{router: router, sessions: sessions, service: svc}
}

func (s *testServer) do(t *testing.T, method, path, body string, sess *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sess != nil {
		token, err := s.sessions.Sign(*sess)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: s.sessions.CookieName(), Value: token})
	}

	rec := httptest.NewRecorder()
	auth := middleware.NewAuth(s.sessions, logger.Discard())
	auth.Authenticate(s.router).ServeHTTP(rec, req)
	return rec
}

var (
	student = &session.Session{UserID: "u1", UserName: "홍길동", StudentID: "S2024001", Email: "hong@example.com"}
	admin   = &session.Session{UserID: "admin", UserName: "admin", IsAdmin: true}
)

func TestRoutes_Authorization(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		sess       *session.Session
		wantStatus int
	}{
		{name: "borrow form anonymous", method: http.MethodGet, path: "/api/v1/borrow", wantStatus: http.StatusUnauthorized},
		{name: "borrow form student", method: http.MethodGet, path: "/api/v1/borrow", sess: student, wantStatus: http.StatusOK},
		{name: "borrow form admin", method: http.MethodGet, path: "/api/v1/borrow", sess: admin, wantStatus: http.StatusForbidden},
		{name: "status student", method: http.MethodGet, path: "/api/v1/status", sess: student, wantStatus: http.StatusOK},
		{name: "status admin", method: http.MethodGet, path: "/api/v1/status", sess: admin, wantStatus: http.StatusOK},
		{name: "admin list anonymous", method: http.MethodGet, path: "/api/v1/admin/reservations", wantStatus: http.StatusUnauthorized},
		{name: "admin list student", method: http.MethodGet, path: "/api/v1/admin/reservations", sess: student, wantStatus: http.StatusForbidden},
		{name: "admin list admin", method: http.MethodGet, path: "/api/v1/admin/reservations", sess: admin, wantStatus: http.StatusOK},
		{name: "approve student", method: http.MethodPost, path: "/api/v1/admin/reservations/abc/approve", sess: student, wantStatus: http.StatusForbidden},
		{name: "approve admin", method: http.MethodPost, path: "/api/v1/admin/reservations/abc/approve", sess: admin, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			rec := s.do(t, tt.method, tt.path, "", tt.sess)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRoutes_BrowserRedirectsToLogin(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reservations", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.AdminLoginPath, rec.Header().Get("Location"))
}

func TestBorrow_PassesSessionAndBody(t *testing.T) {
	s := newTestServer()
	s.service.borrowFunc = func(ctx context.Context, sess *session.Session, req *model.BorrowRequest) (*model.Reservation, error) {
		assert.Equal(t, "S2024001", sess.StudentID)
		assert.Equal(t, "2024-05-04", req.Date)
		assert.Equal(t, "morning", req.TimeSlot)
		return &model.Reservation{ID: "r1", Date: req.Date, TimeSlot: model.Morning, Status: model.StatusWaiting}, nil
	}

	rec := s.do(t, http.MethodPost, "/api/v1/borrow", `{"date":"2024-05-04","time_slot":"morning"}`, student)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data    model.Reservation `json:"data"`
		Message string            `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "r1", resp.Data.ID)
	assert.Equal(t, "노트북 대여 신청이 접수되었습니다.", resp.Message)
}

func TestBorrow_OverdueRefusalIsLocalized(t *testing.T) {
	s := newTestServer()
	s.service.borrowFunc = func(ctx context.Context, sess *session.Session, req *model.BorrowRequest) (*model.Reservation, error) {
		return nil, apperrors.Conflict("overdue").WithKey(locale.KeyBorrowOverdue, 3).WithDetail("overdue_days", 3)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/borrow", `{"date":"2024-05-04","time_slot":"morning"}`, student)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, apperrors.CodeConflict, resp.Code)
	assert.Equal(t, "연체일이 3일 있어 새로운 대여 신청을 할 수 없습니다.", resp.Error)
	assert.EqualValues(t, 3, resp.Details["overdue_days"])
}

func TestBorrow_InvalidBody(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodPost, "/api/v1/borrow", `{"date":`, student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/borrow", `{"unknown":"field"}`, student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMine_UsesSessionStudentID(t *testing.T) {
	s := newTestServer()
	var got string
	s.service.historyFunc = func(ctx context.Context, studentID string) (*model.History, error) {
		got = studentID
		return &model.History{StudentID: studentID, OverdueDays: 2}, nil
	}

	rec := s.do(t, http.MethodGet, "/api/v1/reservations/mine", "", student)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "S2024001", got)
}

func TestStatus_PassesWindow(t *testing.T) {
	s := newTestServer()
	s.service.statusBoardFunc = func(ctx context.Context, from, to string) (*model.StatusWindow, error) {
		assert.Equal(t, "2024-05-01", from)
		assert.Equal(t, "2024-05-07", to)
		return &model.StatusWindow{
			From: from,
			To:   to,
			Board: model.StatusBoard{
				"2024-05-01": {Morning: []string{"가"}, Afternoon: []string{}},
			},
		}, nil
	}

	rec := s.do(t, http.MethodGet, "/api/v1/status?from=2024-05-01&to=2024-05-07", "", student)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data model.StatusWindow `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"가"}, resp.Data.Board["2024-05-01"].Morning)
}

func TestList_InvalidQueryParameters(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantOffset int64
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantLimit: 10, wantOffset: 0},
		{name: "explicit", query: "?limit=5&offset=20", wantStatus: http.StatusOK, wantLimit: 5, wantOffset: 20},
		{name: "limit clamped", query: "?limit=1000", wantStatus: http.StatusOK, wantLimit: 100, wantOffset: 0},
		{name: "bad limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "bad offset", query: "?offset=xyz", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			var gotLimit int
			var gotOffset int64
			s.service.listFunc = func(ctx context.Context, limit int, offset int64) ([]*model.ReservationView, int64, error) {
				gotLimit, gotOffset = limit, offset
				return []*model.ReservationView{}, 7, nil
			}

			rec := s.do(t, http.MethodGet, "/api/v1/admin/reservations"+tt.query, "", admin)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantLimit, gotLimit)
			assert.Equal(t, tt.wantOffset, gotOffset)

			var resp httputil.PaginatedResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, int64(7), resp.TotalCount)
		})
	}
}

func TestReject_ForwardsReason(t *testing.T) {
	s := newTestServer()
	var gotID, gotReason string
	s.service.rejectFunc = func(ctx context.Context, id, reason string) (*model.ReservationView, error) {
		gotID, gotReason = id, reason
		return &model.ReservationView{Reservation: &model.Reservation{ID: id, Status: model.StatusRejected}}, nil
	}

	rec := s.do(t, http.MethodPost, "/api/v1/admin/reservations/r9/reject", `{"reason":"재고 부족"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r9", gotID)
	assert.Equal(t, "재고 부족", gotReason)

	// an empty body is allowed and leaves the reason blank
	rec = s.do(t, http.MethodPost, "/api/v1/admin/reservations/r9/reject", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", gotReason)
}

func TestApprove_ConflictAndInternalErrors(t *testing.T) {
	s := newTestServer()
	s.service.approveFunc = func(ctx context.Context, id string) (*model.ReservationView, error) {
		if id == "busy" {
			return nil, apperrors.Conflict("cannot approve").WithKey(locale.KeyInvalidTransition)
		}
		return nil, apperrors.Internal("db down", assert.AnError)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/admin/reservations/busy/approve", "", admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/reservations/other/approve", "", admin)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestForceCloseAndReturn(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodPost, "/api/v1/admin/reservations/r1/force-close", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"overdue":true`)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/reservations/r1/return", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"returned"`)
}

func TestUserDetail_NotFound(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/api/v1/admin/users/S404", "", admin)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "해당 학번의 사용자를 찾을 수 없습니다.")
}
