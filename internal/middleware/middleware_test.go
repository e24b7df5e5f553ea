package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yoohoo/internal/auth"
	apperrors "yoohoo/internal/errors"
)

type stubVerifier map[string]auth.Identity

func (s stubVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	id, ok := s[token]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &id, nil
}

type stubStore map[string]bool

func (s stubStore) Revoke(_ context.Context, id string, _ time.Duration) error {
	s[id] = true
	return nil
}

func (s stubStore) IsRevoked(_ context.Context, id string) bool { return s[id] }

var verifier = stubVerifier{
	"alice-token": {UID: "alice", Email: "alice@example.com"},
	"root-token":  {UID: "root", Role: "admin"},
}

func run(t *testing.T, req *http.Request, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := func(c echo.Context) error {
		id, _ := IdentityFrom(c)
		return c.String(http.StatusOK, id.UID)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return rec, h(c)
}

func withBearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func TestFirebaseAuth(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		verifier auth.TokenVerifier
		wantUID  string
		wantCode apperrors.Code
	}{
		{name: "valid", token: "alice-token", verifier: verifier, wantUID: "alice"},
		{name: "missing", verifier: verifier, wantCode: apperrors.CodeUnauthorized},
		{name: "rejected", token: "stale", verifier: verifier, wantCode: apperrors.CodeUnauthorized},
		{name: "no verifier", token: "alice-token", wantCode: apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := run(t, withBearer(tt.token), FirebaseAuth(tt.verifier, zap.NewNop()))
			if tt.wantCode != "" {
				assert.True(t, apperrors.IsCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, rec.Body.String())
		})
	}
}

func TestBearerTokenCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "bearer alice-token")
	rec, err := run(t, req, FirebaseAuth(verifier, nil))
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	rec, err := run(t, withBearer(""), OptionalAuth(verifier))
	require.NoError(t, err)
	assert.Empty(t, rec.Body.String())

	rec, err = run(t, withBearer("stale"), OptionalAuth(verifier))
	require.NoError(t, err)
	assert.Empty(t, rec.Body.String())

	rec, err = run(t, withBearer("alice-token"), OptionalAuth(verifier))
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestRequireAdminRole(t *testing.T) {
	_, err := run(t, withBearer("alice-token"), FirebaseAuth(verifier, nil), RequireAdminRole)
	assert.ErrorIs(t, err, apperrors.ErrAdminRequired)

	rec, err := run(t, withBearer("root-token"), FirebaseAuth(verifier, nil), RequireAdminRole)
	require.NoError(t, err)
	assert.Equal(t, "root", rec.Body.String())

	_, err = run(t, withBearer(""), RequireAdminRole)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAdminSession(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret")
	store := stubStore{}
	mw := AdminSession(jwtSvc, store)

	withCookie := func(token string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: token})
		}
		return req
	}

	_, err := run(t, withCookie(""), mw...)
	assert.ErrorIs(t, err, apperrors.ErrAdminSessionRequired)

	_, err = run(t, withCookie("garbage"), mw...)
	assert.ErrorIs(t, err, apperrors.ErrAdminSessionRequired)

	id, token, err := jwtSvc.IssueAdminToken()
	require.NoError(t, err)
	rec, err := run(t, withCookie(token), mw...)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, store.Revoke(context.Background(), id, time.Hour))
	_, err = run(t, withCookie(token), mw...)
	assert.ErrorIs(t, err, apperrors.ErrAdminSessionRequired)
}

func TestRequestLoggerHandlesErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.NoContent(apperrors.MapErrorToHTTP(err).StatusCode)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestLogger(zap.NewNop())(func(c echo.Context) error {
		return apperrors.ErrExchangeNotFound
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
