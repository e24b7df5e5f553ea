package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yoohoo/internal/auth"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/middleware"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
	"yoohoo/internal/service"
)

type testValidator struct{ v *validator.Validate }

func (tv testValidator) Validate(i interface{}) error {
	if err := tv.v.Struct(i); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalid, "Validation failed")
	}
	return nil
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureProfile(ctx context.Context, id auth.Identity) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, uid string, upd service.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, uid, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetPublic(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, q service.ListUsersQuery) ([]model.User, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.User), args.Int(1), args.Error(2)
}

func (m *MockUserService) SearchBySkill(ctx context.Context, query, kind string) ([]service.SkillSearchHit, error) {
	args := m.Called(ctx, query, kind)
	return args.Get(0).([]service.SkillSearchHit), args.Error(1)
}

func (m *MockUserService) Stats(ctx context.Context, id string) (*service.UserStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserStats), args.Error(1)
}

func (m *MockUserService) UpdateTier(ctx context.Context, caller auth.Identity, id, tier string) (*model.User, error) {
	args := m.Called(ctx, caller, id, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockExchangeService is a mock implementation of service.ExchangeService.
type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) Create(ctx context.Context, requesterID string, in service.CreateExchangeInput) (*model.SkillExchange, error) {
	args := m.Called(ctx, requesterID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SkillExchange), args.Error(1)
}

func (m *MockExchangeService) List(ctx context.Context, uid string, status model.ExchangeStatus, role repository.ExchangeRole) ([]model.SkillExchange, error) {
	args := m.Called(ctx, uid, status, role)
	return args.Get(0).([]model.SkillExchange), args.Error(1)
}

func (m *MockExchangeService) Get(ctx context.Context, uid string, id uuid.UUID) (*model.SkillExchange, error) {
	args := m.Called(ctx, uid, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SkillExchange), args.Error(1)
}

func (m *MockExchangeService) Update(ctx context.Context, uid string, id uuid.UUID, upd service.ExchangeUpdate) (*model.SkillExchange, error) {
	args := m.Called(ctx, uid, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SkillExchange), args.Error(1)
}

func (m *MockExchangeService) Messages(ctx context.Context, uid string, id uuid.UUID) ([]model.Message, error) {
	args := m.Called(ctx, uid, id)
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockExchangeService) SendMessage(ctx context.Context, uid string, id uuid.UUID, in service.SendMessageInput) (*model.Message, error) {
	args := m.Called(ctx, uid, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockExchangeService) ExpireStale(ctx context.Context, ttl time.Duration) (int, error) {
	args := m.Called(ctx, ttl)
	return args.Int(0), args.Error(1)
}

// MockWebhookService is a mock implementation of service.WebhookService.
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) Handle(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

// newContext builds an echo context, optionally authenticated as uid.
func newContext(method, target, body, uid string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = testValidator{v: validator.New()}
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		middleware.SetIdentity(c, auth.Identity{UID: uid})
	}
	return c, rec
}

func TestUserHandler_ListUsers(t *testing.T) {
	svc := new(MockUserService)
	h := NewUserHandler(svc)

	want := service.ListUsersQuery{Skills: []string{"go", "guitar"}, Location: "Austin", Limit: 10, Offset: 20}
	svc.On("List", mock.Anything, want).Return([]model.User{{ID: "u1"}}, 31, nil)

	c, rec := newContext(http.MethodGet, "/api/users?skills=go,%20guitar,&location=Austin&limit=10&offset=20", "", "")
	require.NoError(t, h.ListUsers(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool         `json:"success"`
		Data    []model.User `json:"data"`
		Meta    PageMeta     `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, PageMeta{Total: 31, Limit: 10, Offset: 20}, body.Meta)
	svc.AssertExpectations(t)
}

func TestUserHandler_SearchBySkills(t *testing.T) {
	t.Run("missing query", func(t *testing.T) {
		svc := new(MockUserService)
		c, _ := newContext(http.MethodGet, "/api/users/search/skills", "", "")

		err := NewUserHandler(svc).SearchBySkills(c)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
		svc.AssertNotCalled(t, "SearchBySkill")
	})

	t.Run("type defaults to both", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("SearchBySkill", mock.Anything, "python", "both").Return([]service.SkillSearchHit{}, nil)
		c, rec := newContext(http.MethodGet, "/api/users/search/skills?q=%20python%20", "", "")

		require.NoError(t, NewUserHandler(svc).SearchBySkills(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestUserHandler_UpdateTier(t *testing.T) {
	tests := []struct {
		name    string
		uid     string
		body    string
		setup   func(*MockUserService)
		wantErr apperrors.Code
	}{
		{
			name:    "unauthenticated",
			body:    `{"tier":"Wave Rider"}`,
			setup:   func(*MockUserService) {},
			wantErr: apperrors.CodeUnauthorized,
		},
		{
			name:    "missing tier",
			uid:     "u1",
			body:    `{}`,
			setup:   func(*MockUserService) {},
			wantErr: apperrors.CodeInvalid,
		},
		{
			name: "forbidden",
			uid:  "u1",
			body: `{"tier":"Wave Rider"}`,
			setup: func(m *MockUserService) {
				m.On("UpdateTier", mock.Anything, auth.Identity{UID: "u1"}, "u2", "Wave Rider").Return(nil, apperrors.ErrForbidden)
			},
			wantErr: apperrors.CodeForbidden,
		},
		{
			name: "updated",
			uid:  "u2",
			body: `{"tier":"Wave Rider"}`,
			setup: func(m *MockUserService) {
				m.On("UpdateTier", mock.Anything, auth.Identity{UID: "u2"}, "u2", "Wave Rider").Return(&model.User{ID: "u2"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			tt.setup(svc)
			c, rec := newContext(http.MethodPut, "/api/users/u2/tier", tt.body, tt.uid)
			c.SetParamNames("id")
			c.SetParamValues("u2")

			err := NewUserHandler(svc).UpdateTier(c)
			if tt.wantErr != "" {
				assert.True(t, apperrors.IsCode(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestExchangeHandler_Create(t *testing.T) {
	svc := new(MockExchangeService)
	in := service.CreateExchangeInput{ProviderID: "u2", SkillOffered: "Guitar", SkillRequested: "Spanish"}
	svc.On("Create", mock.Anything, "u1", in).Return(&model.SkillExchange{RequesterID: "u1", ProviderID: "u2"}, nil)

	c, rec := newContext(http.MethodPost, "/api/exchanges",
		`{"providerId":"u2","skillOffered":"Guitar","skillRequested":"Spanish"}`, "u1")
	require.NoError(t, NewExchangeHandler(svc).Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestExchangeHandler_CreateValidation(t *testing.T) {
	svc := new(MockExchangeService)
	c, _ := newContext(http.MethodPost, "/api/exchanges", `{"providerId":"u2","skillOffered":"G"}`, "u1")

	err := NewExchangeHandler(svc).Create(c)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
	svc.AssertNotCalled(t, "Create")
}

func TestExchangeHandler_List(t *testing.T) {
	t.Run("bad role", func(t *testing.T) {
		svc := new(MockExchangeService)
		c, _ := newContext(http.MethodGet, "/api/exchanges?role=observer", "", "u1")

		err := NewExchangeHandler(svc).List(c)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
	})

	t.Run("filters forwarded", func(t *testing.T) {
		svc := new(MockExchangeService)
		svc.On("List", mock.Anything, "u1", model.ExchangeStatus("pending"), repository.RoleProvider).
			Return([]model.SkillExchange{}, nil)
		c, rec := newContext(http.MethodGet, "/api/exchanges?role=provider&status=pending", "", "u1")

		require.NoError(t, NewExchangeHandler(svc).List(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestExchangeHandler_GetInvalidID(t *testing.T) {
	svc := new(MockExchangeService)
	c, _ := newContext(http.MethodGet, "/api/exchanges/not-a-uuid", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := NewExchangeHandler(svc).Get(c)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
	svc.AssertNotCalled(t, "Get")
}

func TestExchangeHandler_UpdatePassesThroughErrors(t *testing.T) {
	svc := new(MockExchangeService)
	id := uuid.New()
	svc.On("Update", mock.Anything, "u1", id, mock.AnythingOfType("service.ExchangeUpdate")).
		Return(nil, apperrors.ErrInvalidTransition)

	c, _ := newContext(http.MethodPatch, "/api/exchanges/"+id.String(), `{"status":"completed"}`, "u1")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	err := NewExchangeHandler(svc).Update(c)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestPaymentHandler_StripeWebhook(t *testing.T) {
	payload := `{"id":"evt_1","type":"checkout.session.completed"}`

	t.Run("received", func(t *testing.T) {
		svc := new(MockWebhookService)
		svc.On("Handle", mock.Anything, []byte(payload), "t=1,v1=abc").Return(nil)
		c, rec := newContext(http.MethodPost, "/api/webhooks/stripe", payload, "")
		c.Request().Header.Set("Stripe-Signature", "t=1,v1=abc")

		require.NoError(t, NewPaymentHandler(nil, nil, svc).StripeWebhook(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	})

	t.Run("bad signature", func(t *testing.T) {
		svc := new(MockWebhookService)
		svc.On("Handle", mock.Anything, mock.Anything, "").Return(apperrors.ErrInvalidSignature)
		c, _ := newContext(http.MethodPost, "/api/webhooks/stripe", payload, "")

		err := NewPaymentHandler(nil, nil, svc).StripeWebhook(c)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidSignature))
	})
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 7},
		{"12", 12},
		{"-1", 7},
		{"abc", 7},
	}
	for _, tt := range tests {
		c, _ := newContext(http.MethodGet, "/?n="+tt.raw, "", "")
		assert.Equal(t, tt.want, queryInt(c, "n", 7), "raw=%q", tt.raw)
	}
}

func TestParseExpiry(t *testing.T) {
	got, err := parseExpiry("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseExpiry("2027-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2027, got.Year())

	got, err = parseExpiry("2027-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = parseExpiry("next year")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
}
