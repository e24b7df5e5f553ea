package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/middleware"
	"yoohoo/internal/model"
	"yoohoo/internal/service"
)

// MockGuruSiteService is a mock implementation of service.GuruSiteService.
type MockGuruSiteService struct {
	mock.Mock
}

func (m *MockGuruSiteService) Home(ctx context.Context, g catalog.Guru) (*service.GuruHome, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GuruHome), args.Error(1)
}

func (m *MockGuruSiteService) Posts(ctx context.Context, g catalog.Guru, q service.PostQuery) (*service.PostPage, error) {
	args := m.Called(ctx, g, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostPage), args.Error(1)
}

func (m *MockGuruSiteService) Post(ctx context.Context, g catalog.Guru, slug string) (*service.PostView, error) {
	args := m.Called(ctx, g, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostView), args.Error(1)
}

func (m *MockGuruSiteService) SubmitLead(ctx context.Context, g catalog.Guru, in service.LeadInput, origin service.LeadOrigin) (*service.LeadReceipt, error) {
	args := m.Called(ctx, g, in, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeadReceipt), args.Error(1)
}

func (m *MockGuruSiteService) Services(ctx context.Context, g catalog.Guru) (*service.GuruServices, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GuruServices), args.Error(1)
}

func (m *MockGuruSiteService) About(ctx context.Context, g catalog.Guru) (*service.GuruAbout, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GuruAbout), args.Error(1)
}

func (m *MockGuruSiteService) CreatePost(ctx context.Context, authorID string, g catalog.Guru, in service.CreatePostInput) (*model.GuruPost, error) {
	args := m.Called(ctx, authorID, g, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuruPost), args.Error(1)
}

func (m *MockGuruSiteService) CreateService(ctx context.Context, g catalog.Guru, in service.CreateGuruServiceInput) (*model.GuruService, error) {
	args := m.Called(ctx, g, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuruService), args.Error(1)
}

func (m *MockGuruSiteService) SaveAbout(ctx context.Context, g catalog.Guru, in service.SavePageInput) (*model.GuruPage, error) {
	args := m.Called(ctx, g, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuruPage), args.Error(1)
}

func (m *MockGuruSiteService) ResetMonthlyVisitors(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func cookingGuru(t *testing.T) catalog.Guru {
	t.Helper()
	g, ok := catalog.LookupGuru("cooking")
	require.True(t, ok)
	return g
}

func TestGuruHandler_RequiresResolvedSite(t *testing.T) {
	svc := new(MockGuruSiteService)
	c, _ := newContext(http.MethodGet, "/api/gurus/cooking/home", "", "")

	err := NewGuruHandler(svc).Home(c)
	assert.ErrorIs(t, err, apperrors.ErrGuruRequired)
	svc.AssertNotCalled(t, "Home")
}

func TestGuruHandler_Home(t *testing.T) {
	g := cookingGuru(t)
	svc := new(MockGuruSiteService)
	svc.On("Home", mock.Anything, g).Return(&service.GuruHome{Guru: g, Subdomain: "cooking"}, nil)
	c, rec := newContext(http.MethodGet, "/api/gurus/cooking/home", "", "")
	middleware.SetGuru(c, g)

	require.NoError(t, NewGuruHandler(svc).Home(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subdomain":"cooking"`)
	svc.AssertExpectations(t)
}

func TestGuruHandler_Posts(t *testing.T) {
	g := cookingGuru(t)
	svc := new(MockGuruSiteService)
	want := service.PostQuery{Tag: "bread", Search: "sourdough", Featured: true, Page: 2, Limit: 6}
	svc.On("Posts", mock.Anything, g, want).Return(&service.PostPage{}, nil)
	c, rec := newContext(http.MethodGet, "/api/gurus/cooking/posts?tag=bread&search=sourdough&featured=true&page=2&limit=6", "", "")
	middleware.SetGuru(c, g)

	require.NoError(t, NewGuruHandler(svc).Posts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGuruHandler_Post(t *testing.T) {
	g := cookingGuru(t)
	svc := new(MockGuruSiteService)
	svc.On("Post", mock.Anything, g, "missing").Return(nil, apperrors.ErrPostNotFound)
	c, _ := newContext(http.MethodGet, "/api/gurus/cooking/posts/missing", "", "")
	c.SetParamNames("subdomain", "slug")
	c.SetParamValues("cooking", "missing")
	middleware.SetGuru(c, g)

	err := NewGuruHandler(svc).Post(c)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestGuruHandler_SubmitLead(t *testing.T) {
	g := cookingGuru(t)

	t.Run("service required", func(t *testing.T) {
		svc := new(MockGuruSiteService)
		c, _ := newContext(http.MethodPost, "/api/gurus/cooking/leads", `{"name":"Ann","email":"ann@example.com"}`, "")
		middleware.SetGuru(c, g)

		err := NewGuruHandler(svc).SubmitLead(c)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
		svc.AssertNotCalled(t, "SubmitLead")
	})

	t.Run("origin recorded", func(t *testing.T) {
		svc := new(MockGuruSiteService)
		in := service.LeadInput{Name: "Ann", Email: "ann@example.com", Service: "Private class"}
		origin := service.LeadOrigin{IP: "203.0.113.9", UserAgent: "test-agent"}
		svc.On("SubmitLead", mock.Anything, g, in, origin).Return(&service.LeadReceipt{LeadID: uuid.New(), Guru: "cooking"}, nil)
		c, rec := newContext(http.MethodPost, "/api/gurus/cooking/leads",
			`{"name":"Ann","email":"ann@example.com","service":"Private class"}`, "")
		c.Request().Header.Set(echo.HeaderXRealIP, "203.0.113.9")
		c.Request().Header.Set("User-Agent", "test-agent")
		middleware.SetGuru(c, g)

		require.NoError(t, NewGuruHandler(svc).SubmitLead(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestGuruHandler_CreatePost(t *testing.T) {
	g := cookingGuru(t)

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(MockGuruSiteService)
		c, _ := newContext(http.MethodPost, "/api/gurus/cooking/posts", `{"title":"Knife skills","content":"..."}`, "")
		middleware.SetGuru(c, g)

		err := NewGuruHandler(svc).CreatePost(c)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("duplicate slug", func(t *testing.T) {
		svc := new(MockGuruSiteService)
		dup := apperrors.New(apperrors.CodeAlreadyExists, "A post with this slug already exists")
		svc.On("CreatePost", mock.Anything, "admin", g, service.CreatePostInput{Title: "Knife skills", Content: "..."}).Return(nil, dup)
		c, _ := newContext(http.MethodPost, "/api/gurus/cooking/posts", `{"title":"Knife skills","content":"..."}`, "admin")
		middleware.SetGuru(c, g)

		err := NewGuruHandler(svc).CreatePost(c)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyExists))
	})
}

func TestGuruHandler_SaveAbout(t *testing.T) {
	g := cookingGuru(t)
	svc := new(MockGuruSiteService)
	in := service.SavePageInput{Title: "About", Content: "We cook."}
	svc.On("SaveAbout", mock.Anything, g, in).Return(&model.GuruPage{Title: "About"}, nil)
	c, rec := newContext(http.MethodPut, "/api/gurus/cooking/about", `{"title":"About","content":"We cook."}`, "admin")
	middleware.SetGuru(c, g)

	require.NoError(t, NewGuruHandler(svc).SaveAbout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
