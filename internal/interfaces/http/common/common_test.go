package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.Invalid("email", "is required"), http.StatusBadRequest},
		{&FieldErrors{Fields: map[string]string{"x": "y"}}, http.StatusBadRequest},
		{fmt.Errorf("sign in: %w", domain.ErrUnauthorized), http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrCapacityExceeded, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{errors.New("mongo: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(zap.NewNop(), rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "mongo")
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(nil, rec, httptest.NewRequest(http.MethodGet, "/", nil), domain.Invalid("password", "must contain a digit"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"password": "must contain a digit"}, body.Fields)
}

type signUpBody struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     string   `json:"role" validate:"required,oneof=artist professional"`
	Genres   []string `json:"genres" validate:"max=2"`
}

func decodeString(body string) (signUpBody, error) {
	var dst signUpBody
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSON(httptest.NewRecorder(), r, &dst)
	return dst, err
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := decodeString(`{"email":"a@b.co","password":"secret123","role":"artist"}`)
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", got.Email)
	})

	t.Run("validation uses json names", func(t *testing.T) {
		_, err := decodeString(`{"email":"nope","password":"short","role":"admin","genres":["a","b","c"]}`)
		var fe *FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "must be a valid email address", fe.Fields["email"])
		assert.Equal(t, "must be at least 8 characters", fe.Fields["password"])
		assert.Equal(t, "must be one of: artist professional", fe.Fields["role"])
		assert.Equal(t, "must have at most 2 items", fe.Fields["genres"])
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := decodeString(`{"email":"a@b.co","password":"secret123","role":"artist","admin":true}`)
		var fe *FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Fields["body"], "unknown field")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := decodeString(`{"email":`)
		var fe *FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Fields["body"], "JSON")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := decodeString(``)
		var fe *FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "request body is empty", fe.Fields["body"])
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := decodeString(`{"email":"a@b.co","password":"secret123","role":"artist"} {}`)
		var fe *FieldErrors
		require.ErrorAs(t, err, &fe)
	})

	t.Run("oversized", func(t *testing.T) {
		big := `{"email":"` + strings.Repeat("a", MaxRequestBody) + `"}`
		_, err := decodeString(big)
		var fe *FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "request body is too large", fe.Fields["body"])
	})
}

func TestParsePage(t *testing.T) {
	params, err := ParsePage(url.Values{}, DefaultPageLimit, MaxPageLimit)
	require.NoError(t, err)
	assert.Equal(t, PageParams{Page: 1, Limit: 20}, params)

	params, err = ParsePage(url.Values{"page": {"3"}, "limit": {"50"}, "sort": {" name "}}, DefaultPageLimit, MaxPageLimit)
	require.NoError(t, err)
	assert.Equal(t, PageParams{Page: 3, Limit: 50, Sort: "name"}, params)

	for _, bad := range []url.Values{{"page": {"0"}}, {"page": {"x"}}, {"limit": {"51"}}, {"limit": {"-1"}}} {
		_, err := ParsePage(bad, DefaultPageLimit, MaxPageLimit)
		assert.True(t, domain.IsValidation(err), bad.Encode())
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, PageParams{Page: 2, Limit: 2}, 4, func(i int) string { return fmt.Sprint(i * 10) })
	assert.Equal(t, []string{"10", "20"}, page.Items)
	assert.Equal(t, int64(4), page.Total)

	empty := NewPage[int, string](nil, PageParams{Page: 1, Limit: 20}, 0, nil)
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"page":1,"limit":20,"total":0}`, string(raw))
}
