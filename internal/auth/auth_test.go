package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoohoo/internal/cache"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret")

	id, token, err := svc.IssueAdminToken()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, AdminSubject, claims.Subject)

	rem := claims.Remaining(time.Now())
	assert.InDelta(t, AdminSessionExpiry.Seconds(), rem.Seconds(), 5)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, token, err := svc.IssueAdminToken()
	require.NoError(t, err)

	other := NewJWTService("other-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	expired := NewJWTService("test-secret")
	expired.now = func() time.Time { return time.Now().Add(-5 * time.Hour) }
	_, old, err := expired.IssueAdminToken()
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.Error(t, err)

	userTok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "someone",
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(userTok)
	assert.Error(t, err)

	_, err = svc.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestMessageForCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"auth/user-not-found", "Invalid email or password."},
		{"auth/wrong-password", "Invalid email or password."},
		{"auth/email-already-in-use", "An account with this email already exists."},
		{"weak-password", "Password should be at least 6 characters."},
		{"auth/invalid-email", "Please enter a valid email address."},
		{"auth/too-many-requests", "Too many failed attempts. Please try again later."},
		{"auth/network-request-failed", "Network error. Please check your connection."},
		{"auth/unknown-error", "An error occurred. Please try again."},
		{"", "An error occurred. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageForCode(tt.code))
		})
	}
}

func TestCheckAdminKey(t *testing.T) {
	hash, err := HashAdminKey("s3cret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		configured string
		submitted  string
		want       bool
	}{
		{"plain match", "s3cret", "s3cret", true},
		{"plain mismatch", "s3cret", "nope", false},
		{"hash match", hash, "s3cret", true},
		{"hash mismatch", hash, "nope", false},
		{"not configured", "", "s3cret", false},
		{"empty submission", "s3cret", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAdminKey(tt.configured, tt.submitted))
		})
	}
}

func TestTokenStore_WithoutRedis(t *testing.T) {
	var c *cache.Client
	store := NewTokenStore(c)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "abc", time.Hour))
	assert.False(t, store.IsRevoked(ctx, "abc"))
}

func TestIdentity_IsAdmin(t *testing.T) {
	assert.True(t, Identity{UID: "u", Role: "admin"}.IsAdmin())
	assert.False(t, Identity{UID: "u"}.IsAdmin())
}

func TestErrorCode_Unclassified(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, "", ErrorCode(assert.AnError))
}
