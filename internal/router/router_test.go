package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yoohoo/internal/auth"
	"yoohoo/internal/config"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/featureflags"
	"yoohoo/internal/handler"
	"yoohoo/internal/service"
)

type fakeVerifier map[string]*auth.Identity

func (f fakeVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

type memStore map[string]bool

func (m memStore) Revoke(_ context.Context, id string, _ time.Duration) error {
	m[id] = true
	return nil
}

func (m memStore) IsRevoked(_ context.Context, id string) bool { return m[id] }

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := &config.Config{
		Env:             "test",
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitWindow: time.Minute,
		RateLimitMax:    1000,
	}
	jwtSvc := auth.NewJWTService("router-test-secret")
	store := memStore{}
	flags := featureflags.FromEnv(func(string) string { return "" }, "test")

	admin := service.NewAdminService(flags, nil, nil, nil, nil, nil)
	authSvc := service.NewAuthService("letmein", jwtSvc, store, nil)

	e := echo.New()
	Register(e, cfg, zap.NewNop(), Security{
		Verifier: fakeVerifier{
			"user-token": {UID: "u1", Email: "u1@example.com"},
		},
		JWT:        jwtSvc,
		TokenStore: store,
	}, Handlers{
		Health:       handler.NewHealthHandler("test", nil),
		Auth:         handler.NewAuthHandler(nil, nil),
		Admin:        handler.NewAdminHandler(authSvc, admin, false),
		Users:        handler.NewUserHandler(nil),
		Skills:       handler.NewSkillHandler(nil),
		Exchanges:    handler.NewExchangeHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
		Compliance:   handler.NewComplianceHandler(nil, nil, nil, nil),
		Payments:     handler.NewPaymentHandler(nil, nil, nil),
		Categories:   handler.NewCategoryHandler(nil),
		Insurance:    handler.NewInsuranceHandler(nil),
		Angels:       handler.NewAngelHandler(nil),
		Gurus:        handler.NewGuruHandler(nil),
	})
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister_PublicRoutes(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/feature-flags", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var flags handler.FlagsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flags))
	assert.True(t, flags.Success)
	assert.True(t, flags.Flags["booking"])
	assert.NotContains(t, flags.Flags, featureflags.AdminWriteEnabled)
}

func TestRegister_ProtectedRoutes(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		code   string
	}{
		{"exchanges need a token", http.MethodGet, "/api/exchanges", "", http.StatusUnauthorized, "unauthorized"},
		{"bad token", http.MethodGet, "/api/notifications", "nope", http.StatusUnauthorized, "unauthorized"},
		{"admin role required", http.MethodGet, "/api/admin/documents/pending", "user-token", http.StatusForbidden, "forbidden"},
		{"badge review needs admin", http.MethodPut, "/api/badges/admin/review/r1", "user-token", http.StatusForbidden, "forbidden"},
		{"admin console needs cookie", http.MethodGet, "/api/admin/ping", "", http.StatusUnauthorized, "unauthorized"},
		{"all flags need cookie", http.MethodGet, "/api/feature-flags/admin", "user-token", http.StatusUnauthorized, "unauthorized"},
		{"insurance submit needs a token", http.MethodPost, "/api/insurance/submit", "", http.StatusUnauthorized, "unauthorized"},
		{"insurance review needs admin", http.MethodPut, "/api/insurance/admin/verify/p1", "user-token", http.StatusForbidden, "forbidden"},
		{"insurance stats need admin", http.MethodGet, "/api/insurance/stats", "user-token", http.StatusForbidden, "forbidden"},
		{"posting a job needs a token", http.MethodPost, "/api/angels/jobs", "", http.StatusUnauthorized, "unauthorized"},
		{"job activity needs a token", http.MethodGet, "/api/angels/my-activity", "", http.StatusUnauthorized, "unauthorized"},
		{"unknown route", http.MethodGet, "/api/does-not-exist", "", http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}
			rec := do(e, req)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestRegister_GuruRoutes(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name   string
		method string
		host   string
		path   string
		token  string
		status int
		code   string
	}{
		{"main host has no guru site", http.MethodGet, "api.yoohoo.guru", "/api/gurus/cooking/home", "", http.StatusNotFound, "not_found"},
		{"path must match host", http.MethodGet, "cooking.yoohoo.guru", "/api/gurus/music/about", "", http.StatusBadRequest, "invalid"},
		{"writing posts needs a token", http.MethodPost, "cooking.yoohoo.guru", "/api/gurus/cooking/posts", "", http.StatusUnauthorized, "unauthorized"},
		{"writing posts needs admin", http.MethodPost, "cooking.yoohoo.guru", "/api/gurus/cooking/posts", "user-token", http.StatusForbidden, "forbidden"},
		{"about page needs admin", http.MethodPut, "cooking.yoohoo.guru", "/api/gurus/cooking/about", "user-token", http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Host = tt.host
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}
			rec := do(e, req)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestRegister_AdminSessionLifecycle(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"key":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := do(e, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"key":"letmein"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.AdminCookieName {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	ping := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
		req.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: session.Value})
		return do(e, req).Code
	}
	assert.Equal(t, http.StatusOK, ping())

	req = httptest.NewRequest(http.MethodPatch, "/api/feature-flags/admin/booking", strings.NewReader(`{"enabled":false}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: session.Value})
	rec = do(e, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: session.Value})
	assert.Equal(t, http.StatusOK, do(e, req).Code)

	assert.Equal(t, http.StatusUnauthorized, ping())
}

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RateLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusNoContent, do(e, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	rec := do(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too_many_requests", decodeError(t, rec).Error.Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RateLimiter(0, time.Minute))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, do(e, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"app error", apperrors.ErrExchangeNotFound, http.StatusNotFound, "not_found", "Exchange not found"},
		{"wrapped app error", apperrors.Wrap(errors.New("boom"), apperrors.CodeInvalid, "Bad input"), http.StatusBadRequest, "invalid", "Bad input"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed"},
		{"plain error", errors.New("database exploded"), http.StatusInternalServerError, "internal", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(zap.NewNop())(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.msg, body.Error.Message)
		})
	}
}

func TestValidator(t *testing.T) {
	type payload struct {
		Tier  string `json:"tier" validate:"required,oneof=a b"`
		Notes string `json:"notes" validate:"max=3"`
	}
	v := NewValidator()

	require.NoError(t, v.Validate(&payload{Tier: "a"}))

	err := v.Validate(&payload{Tier: "z", Notes: "toolong"})
	require.Error(t, err)
	var ae *apperrors.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperrors.CodeInvalid, ae.Code)
	fields, ok := ae.Meta["fields"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be one of a b", fields["tier"])
	assert.Equal(t, "must be at most 3", fields["notes"])
}
