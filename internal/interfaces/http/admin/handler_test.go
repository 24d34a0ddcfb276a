package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type mockMembers struct{ mock.Mock }

func (m *mockMembers) List(ctx context.Context, filter adminapp.UserFilter, paging adminapp.Paging) ([]domain.User, int64, error) {
	args := m.Called(ctx, filter, paging)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockMembers) Detail(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockMembers) SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockMembers) SetVerified(ctx context.Context, id string, verified bool) (*domain.User, error) {
	args := m.Called(ctx, id, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockDashboard struct{ mock.Mock }

func (m *mockDashboard) Overview(ctx context.Context) (*admindomain.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admindomain.Dashboard), args.Error(1)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) Payments(ctx context.Context, status domain.PaymentStatus, paging adminapp.Paging) ([]domain.Payment, int64, error) {
	args := m.Called(ctx, status, paging)
	return args.Get(0).([]domain.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *mockLedger) FailedNotifications(ctx context.Context, paging adminapp.Paging) ([]admindomain.FailedNotification, int64, error) {
	args := m.Called(ctx, paging)
	return args.Get(0).([]admindomain.FailedNotification), args.Get(1).(int64), args.Error(2)
}

func newRouter(members *mockMembers, dashboard *mockDashboard, ledger *mockLedger) chi.Router {
	r := chi.NewRouter()
	h := NewHandler(Config{Members: members, Dashboard: dashboard, Ledger: ledger})
	r.Route("/admin", h.Register)
	return r
}

func serve(r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUserList(t *testing.T) {
	members := &mockMembers{}
	members.On("List", mock.Anything, adminapp.UserFilter{Role: domain.RoleProfessional, Status: domain.UserSuspended, Keyword: "mira"},
		adminapp.Paging{Page: 1, Limit: 20}).
		Return([]domain.User{{ID: "u1", Email: "pro@example.com", Role: domain.RoleProfessional, Status: domain.UserSuspended}}, int64(1), nil)

	rec := serve(newRouter(members, nil, nil), http.MethodGet, "/admin/users?role=professional&status=suspended&keyword=mira", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"email":"pro@example.com"`)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	members.AssertExpectations(t)
}

func TestUserStatus(t *testing.T) {
	members := &mockMembers{}
	members.On("SetStatus", mock.Anything, "u1", domain.UserSuspended).
		Return(&domain.User{ID: "u1", Status: domain.UserSuspended}, nil)
	members.On("SetStatus", mock.Anything, "admin-1", domain.UserSuspended).
		Return(nil, domain.Invalid("status", "admins cannot be suspended"))
	r := newRouter(members, nil, nil)

	rec := serve(r, http.MethodPatch, "/admin/users/u1/status", `{"status":"suspended"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"suspended"`)

	rec = serve(r, http.MethodPatch, "/admin/users/admin-1/status", `{"status":"suspended"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodPatch, "/admin/users/u1/status", `{"status":"banned"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	members.AssertExpectations(t)
}

func TestUserVerified_RequiresField(t *testing.T) {
	members := &mockMembers{}
	members.On("SetVerified", mock.Anything, "u1", false).Return(&domain.User{ID: "u1"}, nil)
	r := newRouter(members, nil, nil)

	rec := serve(r, http.MethodPatch, "/admin/users/u1/verified", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodPatch, "/admin/users/u1/verified", `{"verified":false}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	members.AssertExpectations(t)
}

func TestUserDetail_NotFound(t *testing.T) {
	members := &mockMembers{}
	members.On("Detail", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	rec := serve(newRouter(members, nil, nil), http.MethodGet, "/admin/users/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	dashboard := &mockDashboard{}
	dashboard.On("Overview", mock.Anything).Return(&admindomain.Dashboard{
		Users:    admindomain.UserCounts{Total: 3, ByRole: map[string]int64{"artist": 2, "professional": 1}},
		Bookings: map[string]int64{"pending": 4},
		Payments: admindomain.PaymentTotals{
			Count:      2,
			Gross:      decimal.RequireFromString("150"),
			Commission: decimal.RequireFromString("30"),
			Payout:     decimal.RequireFromString("120"),
		},
		GeneratedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	rec := serve(newRouter(nil, dashboard, nil), http.MethodGet, "/admin/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Users.ByRole["artist"])
	assert.Equal(t, "150.00", body.Payments.Gross)
	assert.Equal(t, "0.00", body.Refunded.Gross)
	assert.Equal(t, int64(4), body.Bookings["pending"])
}

func TestPaymentsAndFailedNotifications(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Payments", mock.Anything, domain.PaymentSucceeded, adminapp.Paging{Page: 1, Limit: 100}).
		Return([]domain.Payment{}, int64(0), nil)
	ledger.On("FailedNotifications", mock.Anything, adminapp.Paging{Page: 2, Limit: 20}).
		Return([]admindomain.FailedNotification{{ID: "f1", UserID: "u1", Error: "status=502", Status: "pending"}}, int64(21), nil)
	r := newRouter(nil, nil, ledger)

	rec := serve(r, http.MethodGet, "/admin/payments?status=succeeded&limit=100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"page":1,"limit":100,"total":0}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/admin/payments?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodGet, "/admin/notifications/failed?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"status=502"`)
	ledger.AssertExpectations(t)
}
