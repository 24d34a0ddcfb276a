package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func newTestJWTService() *JWTService {
	return NewJWTService(Config{
		Secret:   []byte("test-secret-key-at-least-32-chars!!"),
		Issuer:   "stagelink-test",
		Audience: "stagelink",
		TTL:      time.Hour,
	})
}

func testUser() domain.User {
	return domain.User{ID: "64b7f0c2a1b2c3d4e5f60718", Role: domain.RoleArtist, DisplayName: "Mira"}
}

func TestJWTService_IssueAndParse(t *testing.T) {
	svc := newTestJWTService()

	issued, err := svc.Issue(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	principal, err := svc.Parse(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", principal.UserID)
	assert.Equal(t, domain.RoleArtist, principal.Role)
	assert.Equal(t, "Mira", principal.Name)
	assert.Equal(t, issued.ID, principal.TokenID)
	assert.False(t, principal.IssuedAt.IsZero())
}

func TestJWTService_IssueRequiresUserID(t *testing.T) {
	_, err := newTestJWTService().Issue(domain.User{Role: domain.RoleArtist})
	assert.Error(t, err)
}

func TestJWTService_ParseExpired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := svc.Issue(testUser())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ParseWithinLeeway(t *testing.T) {
	svc := newTestJWTService()
	issued, err := svc.Issue(testUser())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour + 10*time.Second) }
	_, err = svc.Parse(issued.Token)
	assert.NoError(t, err)
}

func TestJWTService_ParseRejectsForeignTokens(t *testing.T) {
	svc := newTestJWTService()

	other := NewJWTService(Config{Secret: []byte("another-secret-another-secret-123"), Issuer: "stagelink-test", Audience: "stagelink"})
	foreign, err := other.Issue(testUser())
	require.NoError(t, err)

	wrongIssuer := NewJWTService(Config{Secret: svc.secret, Issuer: "someone-else", Audience: "stagelink"})
	issuerToken, err := wrongIssuer.Issue(testUser())
	require.NoError(t, err)

	wrongAudience := NewJWTService(Config{Secret: svc.secret, Issuer: "stagelink-test", Audience: "elsewhere"})
	audienceToken, err := wrongAudience.Issue(testUser())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign.Token},
		{"wrong issuer", issuerToken.Token},
		{"wrong audience", audienceToken.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTService_ParseRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Issuer:    "stagelink-test",
			Subject:   "user",
			Audience:  jwt.ClaimStrings{"stagelink"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: "artist",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ParseRejectsUnknownRole(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Issuer:    "stagelink-test",
			Subject:   "user",
			Audience:  jwt.ClaimStrings{"stagelink"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: "superuser",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
