package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"yoohoo/internal/billing"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByStripeCustomer(ctx context.Context, customerID string) (*model.User, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByStripeAccount(ctx context.Context, accountID string) (*model.User, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

// WithTransaction runs fn against the mock itself.
func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(repo repository.UserRepository) error) error {
	return fn(m)
}

func (m *MockUserRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockExchangeRepository is a mock implementation of ExchangeRepository.
// WithTransaction hands fn a Tx made of the mock and the attached repositories.
type MockExchangeRepository struct {
	mock.Mock
	Users    repository.UserRepository
	Messages repository.MessageRepository
}

func (m *MockExchangeRepository) Create(ctx context.Context, ex *model.SkillExchange) error {
	return m.Called(ctx, ex).Error(0)
}

func (m *MockExchangeRepository) Update(ctx context.Context, ex *model.SkillExchange) error {
	return m.Called(ctx, ex).Error(0)
}

func (m *MockExchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SkillExchange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SkillExchange), args.Error(1)
}

func (m *MockExchangeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SkillExchange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SkillExchange), args.Error(1)
}

func (m *MockExchangeRepository) ListForUser(ctx context.Context, uid string, status model.ExchangeStatus, role repository.ExchangeRole) ([]model.SkillExchange, error) {
	args := m.Called(ctx, uid, status, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SkillExchange), args.Error(1)
}

func (m *MockExchangeRepository) ListPendingBefore(ctx context.Context, before time.Time) ([]model.SkillExchange, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SkillExchange), args.Error(1)
}

func (m *MockExchangeRepository) CountByStatus(ctx context.Context, status model.ExchangeStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExchangeRepository) CountForUser(ctx context.Context, uid string) (repository.ExchangeCounts, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(repository.ExchangeCounts), args.Error(1)
}

func (m *MockExchangeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.Tx{Exchanges: m, Users: m.Users, Messages: m.Messages})
}

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMessageRepository) ListByExchange(ctx context.Context, exchangeID uuid.UUID) ([]model.Message, error) {
	args := m.Called(ctx, exchangeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, exchangeID uuid.UUID, readerID string, at time.Time) (int64, error) {
	args := m.Called(ctx, exchangeID, readerID, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, uid string, unreadOnly bool) ([]model.Notification, error) {
	args := m.Called(ctx, uid, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, uid string) error {
	return m.Called(ctx, id, uid).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, uid string) ([]model.Payment, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *model.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, doc *model.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) FindForUser(ctx context.Context, uid string, id uuid.UUID) (*model.Document, error) {
	args := m.Called(ctx, uid, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindManyForUser(ctx context.Context, uid string, ids []uuid.UUID) ([]model.Document, error) {
	args := m.Called(ctx, uid, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByUser(ctx context.Context, uid string) ([]model.Document, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListPending(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountByStatus(ctx context.Context, status model.ReviewStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockBadgeRepository is a mock implementation of BadgeRepository.
type MockBadgeRepository struct {
	mock.Mock
}

func (m *MockBadgeRepository) CreateRequest(ctx context.Context, req *model.BadgeRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockBadgeRepository) FindRequest(ctx context.Context, id uuid.UUID) (*model.BadgeRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BadgeRequest), args.Error(1)
}

func (m *MockBadgeRepository) UpdateRequest(ctx context.Context, req *model.BadgeRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockBadgeRepository) ListRequestsByUser(ctx context.Context, uid string, status model.ReviewStatus) ([]model.BadgeRequest, error) {
	args := m.Called(ctx, uid, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BadgeRequest), args.Error(1)
}

func (m *MockBadgeRepository) HasPendingRequest(ctx context.Context, uid, badgeType string) (bool, error) {
	args := m.Called(ctx, uid, badgeType)
	return args.Bool(0), args.Error(1)
}

func (m *MockBadgeRepository) CountPendingRequests(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBadgeRepository) ListBadgesByUser(ctx context.Context, uid string, publicOnly bool) ([]model.UserBadge, error) {
	args := m.Called(ctx, uid, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserBadge), args.Error(1)
}

func (m *MockBadgeRepository) HasBadge(ctx context.Context, uid, badgeType string) (bool, error) {
	args := m.Called(ctx, uid, badgeType)
	return args.Bool(0), args.Error(1)
}

func (m *MockBadgeRepository) Approve(ctx context.Context, req *model.BadgeRequest, badge *model.UserBadge) error {
	return m.Called(ctx, req, badge).Error(0)
}

// MockVerificationRepository is a mock implementation of VerificationRepository.
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Upsert(ctx context.Context, v *model.Verification) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVerificationRepository) ListByUser(ctx context.Context, uid string) ([]model.Verification, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Verification), args.Error(1)
}

// MockWaiverRepository is a mock implementation of WaiverRepository.
type MockWaiverRepository struct {
	mock.Mock
}

func (m *MockWaiverRepository) Create(ctx context.Context, w *model.LiabilityWaiver) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWaiverRepository) ListByUser(ctx context.Context, uid string) ([]model.LiabilityWaiver, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LiabilityWaiver), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Upsert(ctx context.Context, cats []model.Category) error {
	return m.Called(ctx, cats).Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// MockKeyInvalidator records cache deletions.
type MockKeyInvalidator struct {
	mock.Mock
}

func (m *MockKeyInvalidator) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// MockNotificationService records notifications.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, uid string, typ model.NotificationType, title, message string, data map[string]string) error {
	return m.Called(ctx, uid, typ, title, message, data).Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, uid string, unreadOnly bool) ([]model.Notification, error) {
	args := m.Called(ctx, uid, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, uid string, id uuid.UUID) error {
	return m.Called(ctx, uid, id).Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(int64), args.Error(1)
}

// MockGateway is a mock implementation of billing.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCustomer(ctx context.Context, email, name, userID string) (string, error) {
	args := m.Called(ctx, email, name, userID)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreatePaymentIntent(ctx context.Context, in billing.PaymentIntentInput) (*billing.PaymentIntent, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentIntent), args.Error(1)
}

func (m *MockGateway) CreateExpressAccount(ctx context.Context, email, userID string) (string, error) {
	args := m.Called(ctx, email, userID)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) OnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	args := m.Called(ctx, accountID, refreshURL, returnURL)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) AccountStatus(ctx context.Context, accountID string) (*billing.AccountStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.AccountStatus), args.Error(1)
}

func (m *MockGateway) LoginLink(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Balance(ctx context.Context, accountID string) (*billing.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Balance), args.Error(1)
}

func (m *MockGateway) InstantPayout(ctx context.Context, accountID string, amountCents int64, currency string) (*billing.Payout, error) {
	args := m.Called(ctx, accountID, amountCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payout), args.Error(1)
}

// MockDocumentStore is a mock implementation of storage.DocumentStore.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, r, size, contentType).Error(0)
}

func (m *MockDocumentStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockMailer records outgoing mail.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	return m.Called(ctx, tokenID).Bool(0)
}

// MockInsuranceRepository is a mock implementation of InsuranceRepository.
type MockInsuranceRepository struct {
	mock.Mock
}

func (m *MockInsuranceRepository) Create(ctx context.Context, p *model.InsurancePolicy) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockInsuranceRepository) Update(ctx context.Context, p *model.InsurancePolicy) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockInsuranceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InsurancePolicy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsurancePolicy), args.Error(1)
}

func (m *MockInsuranceRepository) ListByUser(ctx context.Context, uid string) ([]model.InsurancePolicy, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InsurancePolicy), args.Error(1)
}

func (m *MockInsuranceRepository) ListAll(ctx context.Context) ([]model.InsurancePolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InsurancePolicy), args.Error(1)
}

func (m *MockInsuranceRepository) ListExpiring(ctx context.Context, uid string, from, to time.Time) ([]model.InsurancePolicy, error) {
	args := m.Called(ctx, uid, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InsurancePolicy), args.Error(1)
}

func (m *MockInsuranceRepository) ListDueReminders(ctx context.Context, now time.Time) ([]model.InsurancePolicy, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InsurancePolicy), args.Error(1)
}

func (m *MockInsuranceRepository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockInsuranceRepository) FindReminderPrefs(ctx context.Context, uid string) (*model.InsuranceReminderPrefs, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsuranceReminderPrefs), args.Error(1)
}

func (m *MockInsuranceRepository) SaveReminderPrefs(ctx context.Context, prefs *model.InsuranceReminderPrefs) error {
	return m.Called(ctx, prefs).Error(0)
}

// MockAngelRepository is a mock implementation of AngelRepository.
// WithTransaction runs fn against the mock itself.
type MockAngelRepository struct {
	mock.Mock
}

func (m *MockAngelRepository) CreateJob(ctx context.Context, job *model.AngelJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockAngelRepository) UpdateJob(ctx context.Context, job *model.AngelJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockAngelRepository) FindJob(ctx context.Context, id uuid.UUID) (*model.AngelJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AngelJob), args.Error(1)
}

func (m *MockAngelRepository) FindJobForUpdate(ctx context.Context, id uuid.UUID) (*model.AngelJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AngelJob), args.Error(1)
}

func (m *MockAngelRepository) ListJobs(ctx context.Context, f repository.AngelJobFilter) ([]model.AngelJob, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.AngelJob), args.Get(1).(int64), args.Error(2)
}

func (m *MockAngelRepository) ListJobsByPoster(ctx context.Context, uid string) ([]model.AngelJob, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AngelJob), args.Error(1)
}

func (m *MockAngelRepository) FindJobs(ctx context.Context, ids []uuid.UUID) ([]model.AngelJob, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AngelJob), args.Error(1)
}

func (m *MockAngelRepository) CountApplications(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, jobIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockAngelRepository) CreateApplication(ctx context.Context, app *model.AngelApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockAngelRepository) UpdateApplication(ctx context.Context, app *model.AngelApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockAngelRepository) FindApplication(ctx context.Context, jobID uuid.UUID, applicantID string) (*model.AngelApplication, error) {
	args := m.Called(ctx, jobID, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AngelApplication), args.Error(1)
}

func (m *MockAngelRepository) ListApplications(ctx context.Context, jobID uuid.UUID) ([]model.AngelApplication, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AngelApplication), args.Error(1)
}

func (m *MockAngelRepository) ListApplicationsByApplicant(ctx context.Context, uid string) ([]model.AngelApplication, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AngelApplication), args.Error(1)
}

func (m *MockAngelRepository) RejectPendingExcept(ctx context.Context, jobID uuid.UUID, applicantID, message string, at time.Time) (int64, error) {
	args := m.Called(ctx, jobID, applicantID, message, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAngelRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.AngelRepository) error) error {
	return fn(ctx, m)
}

// MockGuruRepository is a mock implementation of GuruRepository.
type MockGuruRepository struct {
	mock.Mock
}

func (m *MockGuruRepository) CreatePost(ctx context.Context, post *model.GuruPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockGuruRepository) ListPublished(ctx context.Context, subdomain string) ([]model.GuruPost, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GuruPost), args.Error(1)
}

func (m *MockGuruRepository) FindPostBySlug(ctx context.Context, subdomain, slug string) (*model.GuruPost, error) {
	args := m.Called(ctx, subdomain, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuruPost), args.Error(1)
}

func (m *MockGuruRepository) IncrementViews(ctx context.Context, postID uuid.UUID) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockGuruRepository) CreateService(ctx context.Context, svc *model.GuruService) error {
	return m.Called(ctx, svc).Error(0)
}

func (m *MockGuruRepository) ListServices(ctx context.Context, subdomain string) ([]model.GuruService, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GuruService), args.Error(1)
}

func (m *MockGuruRepository) FindPage(ctx context.Context, subdomain, page string) (*model.GuruPage, error) {
	args := m.Called(ctx, subdomain, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuruPage), args.Error(1)
}

func (m *MockGuruRepository) SavePage(ctx context.Context, page *model.GuruPage) error {
	return m.Called(ctx, page).Error(0)
}

func (m *MockGuruRepository) CreateLead(ctx context.Context, lead *model.GuruLead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockGuruRepository) Stats(ctx context.Context, subdomain string) (*model.GuruStats, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuruStats), args.Error(1)
}

func (m *MockGuruRepository) IncrementStat(ctx context.Context, subdomain string, stat repository.GuruStat) error {
	return m.Called(ctx, subdomain, stat).Error(0)
}

func (m *MockGuruRepository) ResetMonthlyVisitors(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
