package public

import (
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

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type fixture struct {
	auth     *mockAuthService
	profiles *mockProfileService
	messages *mockMessageService
	bookings *mockBookingService
	catalog  *mockCatalogService
	payments *mockPaymentService
	router   chi.Router
}

// fakeAuth trusts X-Test-User / X-Test-Role so handlers can be exercised
// without signing tokens.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-Test-User")
		if userID == "" {
			common.WriteMessage(nil, w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := common.ContextWithPrincipal(r.Context(), publicapp.Principal{
			UserID:    userID,
			Role:      domain.Role(r.Header.Get("X-Test-Role")),
			TokenID:   "jti-1",
			ExpiresAt: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func passThrough(next http.Handler) http.Handler { return next }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth:     &mockAuthService{},
		profiles: &mockProfileService{},
		messages: &mockMessageService{},
		bookings: &mockBookingService{},
		catalog:  &mockCatalogService{},
		payments: &mockPaymentService{},
	}
	h := NewHandler(Config{
		Auth:     f.auth,
		Profiles: f.profiles,
		Messages: f.messages,
		Bookings: f.bookings,
		Catalog:  f.catalog,
		Payments: f.payments,
	})
	r := chi.NewRouter()
	h.Register(r, fakeAuth, passThrough)
	f.router = r
	t.Cleanup(func() {
		f.auth.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
		f.messages.AssertExpectations(t)
		f.bookings.AssertExpectations(t)
		f.catalog.AssertExpectations(t)
		f.payments.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func artistUser() *domain.User {
	return &domain.User{
		ID:           "artist-1",
		Email:        "mira@example.com",
		PasswordHash: "$2a$12$secret",
		Role:         domain.RoleArtist,
		DisplayName:  "Mira",
		Genres:       []string{"indie"},
		Plan:         domain.PlanFree,
		Status:       domain.UserActive,
	}
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	f.auth.On("SignUp", mock.Anything, publicapp.SignUpCommand{
		Email: "mira@example.com", Password: "secret123", DisplayName: "Mira", Role: "artist",
	}).Return(&publicapp.AuthResult{
		User:  artistUser(),
		Token: publicapp.IssuedToken{Token: "tok", ExpiresAt: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)},
	}, nil)

	rec := f.do(http.MethodPost, "/auth/signup", `{"email":"mira@example.com","password":"secret123","displayName":"Mira","role":"artist"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "tok", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "mira@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestSignUp_RejectsInvalidBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/auth/signup", `{"email":"bad","password":"x","displayName":"","role":"admin"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[common.ErrorResponse](t, rec)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "role")
	f.auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignIn_Unauthorized(t *testing.T) {
	f := newFixture(t)
	f.auth.On("SignIn", mock.Anything, publicapp.SignInCommand{Email: "a@b.co", Password: "wrong"}).
		Return(nil, domain.ErrUnauthorized)

	rec := f.do(http.MethodPost, "/auth/signin", `{"email":"a@b.co","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	f.auth.On("SignOut", mock.Anything, mock.MatchedBy(func(p publicapp.Principal) bool {
		return p.UserID == "artist-1" && p.TokenID == "jti-1"
	})).Return(nil)

	rec := f.do(http.MethodPost, "/auth/signout", "", "X-Test-User", "artist-1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	f := newFixture(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/messages"},
		{http.MethodGet, "/bookings"},
		{http.MethodPost, "/services/svc-1/purchase"},
		{http.MethodGet, "/payments"},
	} {
		rec := f.do(route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Me", mock.Anything, "artist-1").Return(artistUser(), nil)

	rec := f.do(http.MethodGet, "/me", "", "X-Test-User", "artist-1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "artist-1", body["id"])
	assert.Equal(t, "mira@example.com", body["email"])
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestUpdateMe_GenresAndLinks(t *testing.T) {
	f := newFixture(t)
	f.profiles.On("Update", mock.Anything, "artist-1", mock.MatchedBy(func(p domain.ProfilePatch) bool {
		return p.GenresSet && len(p.Genres) == 2 && p.Links != nil &&
			p.Links.Spotify == "https://open.spotify.com/artist/1" && p.DisplayName == nil
	})).Return(artistUser(), nil)

	rec := f.do(http.MethodPatch, "/me",
		`{"genres":["Indie","pop"],"links":{"spotify":"https://open.spotify.com/artist/1"}}`,
		"X-Test-User", "artist-1")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpdateMe_InvalidLink(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPatch, "/me", `{"links":{"website":"ftp://x"}}`, "X-Test-User", "artist-1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[common.ErrorResponse](t, rec)
	assert.Contains(t, body.Fields, "links.website")
}

func TestProfileSearch(t *testing.T) {
	f := newFixture(t)
	f.profiles.On("Search", mock.Anything, publicapp.ProfileFilter{
		Role: domain.RoleArtist, Genre: "indie", Tier: domain.TierDeveloping,
	}, publicapp.Paging{Page: 2, Limit: 10, Sort: "score"}).Return([]domain.User{*artistUser()}, int64(11), nil)

	rec := f.do(http.MethodGet, "/profiles?role=artist&genre=Indie&tier=developing&page=2&limit=10&sort=score", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[common.PageResponse[ProfileResponse]](t, rec)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 10, body.Limit)
	assert.Equal(t, int64(11), body.Total)
	require.Len(t, body.Items, 1)
	assert.NotContains(t, rec.Body.String(), "mira@example.com")
}

func TestProfileSearch_BadParams(t *testing.T) {
	f := newFixture(t)
	for _, q := range []string{"role=admin", "tier=legend", "limit=500", "sort=random"} {
		rec := f.do(http.MethodGet, "/profiles?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestProfileDetail_NotFound(t *testing.T) {
	f := newFixture(t)
	f.profiles.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	rec := f.do(http.MethodGet, "/profiles/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	f.messages.On("Send", mock.Anything, publicapp.SendMessageCommand{
		SenderID: "artist-1", RecipientID: "pro-1", Body: "hello",
	}).Return(&domain.Message{ID: "m1", ConversationID: "artist-1:pro-1", SenderID: "artist-1", RecipientID: "pro-1", Body: "hello"}, nil)

	rec := f.do(http.MethodPost, "/messages", `{"recipientId":"pro-1","body":"hello"}`, "X-Test-User", "artist-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "artist-1:pro-1", decode[map[string]any](t, rec)["conversationId"])
}

func TestConversationMessages_Cursor(t *testing.T) {
	f := newFixture(t)
	before := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	f.messages.On("Messages", mock.Anything, "artist-1", "pro-1", &before, 25).Return([]domain.Message{}, nil)

	rec := f.do(http.MethodGet, "/conversations/pro-1?before=2026-05-01T10:00:00Z&limit=25", "", "X-Test-User", "artist-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/conversations/pro-1?before=yesterday", "", "X-Test-User", "artist-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkReadAndUnread(t *testing.T) {
	f := newFixture(t)
	f.messages.On("MarkRead", mock.Anything, "artist-1", "pro-1").Return(int64(3), nil)
	f.messages.On("UnreadCount", mock.Anything, "artist-1").Return(int64(0), nil)

	rec := f.do(http.MethodPost, "/conversations/pro-1/read", "", "X-Test-User", "artist-1")
	assert.JSONEq(t, `{"updated":3}`, rec.Body.String())
	rec = f.do(http.MethodGet, "/messages/unread", "", "X-Test-User", "artist-1")
	assert.JSONEq(t, `{"unread":0}`, rec.Body.String())
}

func TestSlotList_ByDay(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	f.bookings.On("ListSlots", mock.Anything, "pro-1", &day).Return([]domain.Slot{{
		ID: "s1", ProfessionalID: "pro-1", Capacity: 3, BookedCount: 1, Kind: domain.SlotMentoring,
	}}, nil)

	rec := f.do(http.MethodGet, "/professionals/pro-1/slots?date=2026-06-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Items []slotResponse `json:"items"`
	}](t, rec)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.Items[0].Remaining)
}

func TestRequestBooking_CapacityExceeded(t *testing.T) {
	f := newFixture(t)
	f.bookings.On("RequestBooking", mock.Anything, publicapp.RequestBookingCommand{
		ArtistID: "artist-1", SlotID: "s1", Note: "first time",
	}).Return(nil, domain.ErrCapacityExceeded)

	rec := f.do(http.MethodPost, "/slots/s1/bookings", `{"note":"first time"}`, "X-Test-User", "artist-1")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "fully booked")
}

func TestRequestBooking_EmptyBody(t *testing.T) {
	f := newFixture(t)
	f.bookings.On("RequestBooking", mock.Anything, publicapp.RequestBookingCommand{ArtistID: "artist-1", SlotID: "s1"}).
		Return(&domain.Booking{ID: "b1", SlotID: "s1", ArtistID: "artist-1", Status: domain.BookingPending}, nil)

	rec := f.do(http.MethodPost, "/slots/s1/bookings", "", "X-Test-User", "artist-1")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestBookingList_DefaultsSideToRole(t *testing.T) {
	f := newFixture(t)
	f.bookings.On("ListBookings", mock.Anything, publicapp.BookingQuery{
		UserID: "pro-1", As: domain.ActorProfessional, Status: domain.BookingPending,
	}, publicapp.Paging{Page: 1, Limit: 20}).Return([]domain.Booking{}, int64(0), nil)

	rec := f.do(http.MethodGet, "/bookings?status=pending", "", "X-Test-User", "pro-1", "X-Test-Role", "professional")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"page":1,"limit":20,"total":0}`, rec.Body.String())
}

func TestBookingStatus_InvalidTransition(t *testing.T) {
	f := newFixture(t)
	f.bookings.On("ChangeStatus", mock.Anything, publicapp.ChangeBookingStatusCommand{
		UserID: "artist-1", BookingID: "b1", Status: domain.BookingConfirmed,
	}).Return(nil, domain.ErrInvalidTransition)

	rec := f.do(http.MethodPatch, "/bookings/b1", `{"status":"confirmed"}`, "X-Test-User", "artist-1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodPatch, "/bookings/b1", `{"status":"pending"}`, "X-Test-User", "artist-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceList_Filters(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("List", mock.Anything, mock.MatchedBy(func(filter publicapp.ServiceFilter) bool {
		return filter.Category == "mixing" && filter.MaxPrice != nil && filter.MaxPrice.Equal(decimal.NewFromInt(100))
	}), publicapp.Paging{Page: 1, Limit: 20, Sort: "price_asc"}).Return([]domain.PremiumService{{
		ID: "svc-1", Title: "Mix review", Category: "mixing",
		Price: domain.Money{Amount: decimal.RequireFromString("49.9"), Currency: "usd"}, Active: true,
	}}, int64(1), nil)

	rec := f.do(http.MethodGet, "/services?category=mixing&maxPrice=100&sort=price_asc", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[common.PageResponse[serviceResponse]](t, rec)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "49.90", body.Items[0].Price)
}

func TestServiceCreate_AcceptsNumericPrice(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("Create", mock.Anything, "pro-1", domain.ServiceDraft{
		Title: "Mix review", Category: "mixing", Price: "49.99", DeliveryDays: 7,
	}).Return(&domain.PremiumService{ID: "svc-1", ProfessionalID: "pro-1", Title: "Mix review"}, nil)

	rec := f.do(http.MethodPost, "/services", `{"title":"Mix review","category":"mixing","price":49.99,"deliveryDays":7}`,
		"X-Test-User", "pro-1")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestServiceDeactivate_Forbidden(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("Deactivate", mock.Anything, "pro-2", "svc-1").Return(domain.ErrForbidden)

	rec := f.do(http.MethodDelete, "/services/svc-1", "", "X-Test-User", "pro-2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPurchase(t *testing.T) {
	f := newFixture(t)
	f.payments.On("Purchase", mock.Anything, "artist-1", "svc-1").Return(&domain.Payment{
		ID:             "pay-1",
		ServiceID:      "svc-1",
		BuyerID:        "artist-1",
		SellerID:       "pro-1",
		Amount:         domain.Money{Amount: decimal.RequireFromString("50"), Currency: "usd"},
		CommissionRate: decimal.RequireFromString("0.2"),
		Commission:     decimal.RequireFromString("10"),
		Payout:         decimal.RequireFromString("40"),
		Status:         domain.PaymentPending,
		ClientSecret:   "pi_1_secret",
	}, nil)

	rec := f.do(http.MethodPost, "/services/svc-1/purchase", "", "X-Test-User", "artist-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[PaymentResponse](t, rec)
	assert.Equal(t, "50.00", body.Amount)
	assert.Equal(t, "10.00", body.Commission)
	assert.Equal(t, "40.00", body.Payout)
	assert.Equal(t, "pi_1_secret", body.ClientSecret)
}

func TestPaymentWebhook(t *testing.T) {
	f := newFixture(t)
	payload := `{"id":"evt_1","type":"payment_intent.succeeded","providerRef":"pi_1"}`
	f.payments.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(nil).Once()
	f.payments.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=bad").Return(domain.Invalid("signature", "does not match")).Once()

	rec := f.do(http.MethodPost, "/payments/webhook", payload, "Stripe-Signature", "t=1,v1=abc")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/payments/webhook", payload, "X-Webhook-Signature", "t=1,v1=bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/payments/webhook", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentDetail_NotParty(t *testing.T) {
	f := newFixture(t)
	f.payments.On("Get", mock.Anything, "artist-2", "pay-1").Return(nil, domain.ErrNotFound)

	rec := f.do(http.MethodGet, "/payments/pay-1", "", "X-Test-User", "artist-2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
