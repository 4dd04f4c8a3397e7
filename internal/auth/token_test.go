package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newIssuer(t *testing.T, cfg TokenConfig) *TokenIssuer {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = []byte(testSecret)
	}
	issuer, err := NewTokenIssuer(cfg)
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(TokenConfig{})
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newIssuer(t, TokenConfig{})

	tests := []Identity{
		{UserID: 1, Username: "jane"},
		{UserID: 42, Username: "John Doe", Email: "johndoe@example.com"},
		{UserID: 1 << 30, Username: "ünïcødé"},
	}

	for _, id := range tests {
		t.Run(id.Username, func(t *testing.T) {
			token, err := issuer.Issue(id)
			require.NoError(t, err)

			claims, err := issuer.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, id.UserID, claims.UserID)
			assert.Equal(t, id.Username, claims.Username)
			assert.Empty(t, claims.Email, "email is excluded unless configured")
			assert.Nil(t, claims.IssuedAt, "no timestamps by default")
			assert.Nil(t, claims.ExpiresAt)
		})
	}
}

func TestTokenIssuer_IncludeEmail(t *testing.T) {
	issuer := newIssuer(t, TokenConfig{IncludeEmail: true})
	token, err := issuer.Issue(Identity{UserID: 7, Username: "jane", Email: "jane@x.com"})
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", claims.Email)
}

func TestTokenIssuer_IssueRequiresIdentity(t *testing.T) {
	issuer := newIssuer(t, TokenConfig{})
	_, err := issuer.Issue(Identity{Username: "nobody"})
	assert.ErrorIs(t, err, ErrTokenClaims)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuer := newIssuer(t, TokenConfig{TTL: time.Hour})
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return base }

	token, err := issuer.Issue(Identity{UserID: 1, Username: "jane"})
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, base.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	issuer.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_VerifyErrors(t *testing.T) {
	issuer := newIssuer(t, TokenConfig{})
	good, err := issuer.Issue(Identity{UserID: 1, Username: "jane"})
	require.NoError(t, err)

	other := newIssuer(t, TokenConfig{Secret: []byte("another-secret-another-secret-123456")})
	foreign, err := other.Issue(Identity{UserID: 1, Username: "jane"})
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"user_id": 1, "username": "jane"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1, "username": "jane"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "jane"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrTokenMalformed},
		{"garbage", "not-a-token", ErrTokenMalformed},
		{"three garbage segments", "malformed.token.here", ErrTokenMalformed},
		{"other secret", foreign, ErrTokenSignature},
		{"tampered signature", tampered, ErrTokenSignature},
		{"hs512", hs512, ErrTokenSignature},
		{"alg none", none, ErrTokenSignature},
		{"missing user id", noUser, ErrTokenClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenIssuer_AcceptsLegacyPayload(t *testing.T) {
	// Tokens minted without timestamps by the previous deployment.
	legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 3, "username": "Jane Doe"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := newIssuer(t, TokenConfig{}).Verify(legacy)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "Jane Doe", claims.Username)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer: abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
