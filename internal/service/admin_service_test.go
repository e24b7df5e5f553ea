package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yoohoo/internal/auth"
	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/featureflags"
	"yoohoo/internal/model"
	"yoohoo/internal/notify"
)

func flagsWith(env map[string]string) *featureflags.Registry {
	return featureflags.FromEnv(func(k string) string { return env[k] }, "production")
}

func TestAdminService_Dashboard(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	users := new(MockUserRepository)
	exchanges := new(MockExchangeRepository)
	documents := new(MockDocumentRepository)
	badges := new(MockBadgeRepository)
	users.On("Count", mock.Anything).Return(int64(120), nil)
	users.On("CountActiveSince", mock.Anything, weekAgo).Return(int64(40), nil)
	users.On("CountCreatedSince", mock.Anything, weekAgo).Return(int64(9), nil)
	exchanges.On("CountByStatus", mock.Anything, model.ExchangeStatus("")).Return(int64(30), nil)
	exchanges.On("CountByStatus", mock.Anything, model.ExchangeStatusCompleted).Return(int64(12), nil)
	exchanges.On("CountByStatus", mock.Anything, model.ExchangeStatusPending).Return(int64(5), nil)
	documents.On("CountByStatus", mock.Anything, model.ReviewPending).Return(int64(3), nil)
	badges.On("CountPendingRequests", mock.Anything).Return(int64(2), nil)

	svc := NewAdminService(flagsWith(nil), users, exchanges, documents, badges, nil).(*adminService)
	svc.now = func() time.Time { return now }

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, UserCounts{Total: 120, ActiveWeek: 40, NewThisWeek: 9}, d.Users)
	assert.Equal(t, ExchangeTotals{Total: 30, Completed: 12, Pending: 5}, d.Exchanges)
	assert.Equal(t, int64(3), d.PendingDocuments)
	assert.Equal(t, int64(2), d.PendingBadgeRequests)
	assert.Contains(t, d.Flags, featureflags.AdminWriteEnabled)
	assert.Equal(t, now, d.GeneratedAt)
}

func TestAdminService_Dashboard_RepositoryError(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Count", mock.Anything).Return(int64(0), errors.New("db down"))
	svc := NewAdminService(flagsWith(nil), users, nil, nil, nil, nil)

	_, err := svc.Dashboard(context.Background())
	assert.Error(t, err)
}

func TestAdminService_Flags(t *testing.T) {
	svc := NewAdminService(flagsWith(nil), nil, nil, nil, nil, nil)

	assert.NotContains(t, svc.PublicFlags(), featureflags.AdminWriteEnabled)
	assert.Contains(t, svc.AllFlags(), featureflags.AdminWriteEnabled)
	assert.True(t, svc.PublicFlags()["booking"])
}

func TestAdminService_UpdateFlag(t *testing.T) {
	t.Run("writes disabled", func(t *testing.T) {
		svc := NewAdminService(flagsWith(nil), nil, nil, nil, nil, nil)
		err := svc.UpdateFlag(context.Background(), "darkMode", true)
		assert.ErrorIs(t, err, apperrors.ErrAdminWriteDisabled)
	})

	t.Run("unknown flag", func(t *testing.T) {
		svc := NewAdminService(flagsWith(map[string]string{"ADMIN_WRITE_ENABLED": "true"}), nil, nil, nil, nil, nil)
		err := svc.UpdateFlag(context.Background(), "teleportation", true)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("updates in memory", func(t *testing.T) {
		svc := NewAdminService(flagsWith(map[string]string{"ADMIN_WRITE_ENABLED": "true"}), nil, nil, nil, nil, nil)
		require.NoError(t, svc.UpdateFlag(context.Background(), "darkMode", true))
		assert.True(t, svc.PublicFlags()["darkMode"])
	})
}

func TestAuthService_Login(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret")

	t.Run("no key configured", func(t *testing.T) {
		svc := NewAuthService("", jwtSvc, new(MockTokenStore), nil)
		_, err := svc.Login(context.Background(), "anything")
		assert.ErrorIs(t, err, apperrors.ErrAdminKeyMissing)
	})

	t.Run("wrong key", func(t *testing.T) {
		svc := NewAuthService("s3cret", jwtSvc, new(MockTokenStore), nil)
		_, err := svc.Login(context.Background(), "guess")
		assert.ErrorIs(t, err, apperrors.ErrInvalidAdminKey)
	})

	t.Run("plain key", func(t *testing.T) {
		svc := NewAuthService("s3cret", jwtSvc, new(MockTokenStore), nil)
		sess, err := svc.Login(context.Background(), "s3cret")
		require.NoError(t, err)
		_, err = jwtSvc.ValidateToken(sess.Token)
		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(auth.AdminSessionExpiry), sess.ExpiresAt, 5*time.Second)
	})

	t.Run("hashed key", func(t *testing.T) {
		hash, err := auth.HashAdminKey("s3cret")
		require.NoError(t, err)
		svc := NewAuthService(hash, jwtSvc, new(MockTokenStore), nil)
		_, err = svc.Login(context.Background(), "s3cret")
		assert.NoError(t, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret")
	store := new(MockTokenStore)
	svc := NewAuthService("s3cret", jwtSvc, store, nil)

	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "garbage"))
	store.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)

	id, token, err := jwtSvc.IssueAdminToken()
	require.NoError(t, err)
	store.On("Revoke", mock.Anything, id, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= auth.AdminSessionExpiry
	})).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), token))
	store.AssertExpectations(t)
}

func TestCategoryService(t *testing.T) {
	repo := new(MockCategoryRepository)
	launch := catalog.LaunchCategories()
	repo.On("Upsert", mock.Anything, launch).Return(nil)
	repo.On("List", mock.Anything).Return(nil, nil)
	svc := NewCategoryService(repo)

	n, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(launch), n)

	cats, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cats)
}

func newInlineNotificationService(repo *MockNotificationRepository, users *MockUserRepository, mailer *MockMailer) *notificationService {
	var m notify.Mailer
	if mailer != nil {
		m = mailer
	}
	svc := NewNotificationService(repo, users, m, nil).(*notificationService)
	svc.dispatch = func(f func()) { f() }
	return svc
}

func TestNotificationService_Notify(t *testing.T) {
	t.Run("stores truncated notification", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
			return len([]rune(n.Title)) == 100 && n.UserID == "u1" && n.Data["exchangeId"] == "e1"
		})).Return(nil)
		svc := newInlineNotificationService(repo, nil, nil)

		long := string(make([]rune, 150))
		err := svc.Notify(context.Background(), "u1", model.NotificationSystemAnnouncement, long, "hello", map[string]string{"exchangeId": "e1"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("emails a copy and tolerates mailer failure", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).Return(nil)
		users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Email: "u1@example.com"}, nil)
		mailer.On("Send", mock.Anything, "u1@example.com", "Paid", "You got paid").Return(errors.New("smtp down"))
		svc := newInlineNotificationService(repo, users, mailer)

		err := svc.Notify(context.Background(), "u1", model.NotificationPaymentReceived, "Paid", "You got paid", nil)
		require.NoError(t, err)
		mailer.AssertExpectations(t)
	})

	t.Run("skips users without email", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).Return(nil)
		users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1"}, nil)
		svc := newInlineNotificationService(repo, users, mailer)

		require.NoError(t, svc.Notify(context.Background(), "u1", model.NotificationPaymentReceived, "Paid", "x", nil))
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	id := uuid.New()
	repo := new(MockNotificationRepository)
	repo.On("MarkRead", mock.Anything, id, "u1").Return(gorm.ErrRecordNotFound)
	svc := NewNotificationService(repo, nil, nil, nil)

	assert.ErrorIs(t, svc.MarkRead(context.Background(), "u1", id), apperrors.ErrNotificationNotFound)
}
