package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"yoohoo/internal/auth"
	"yoohoo/internal/billing"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// WebhookEndpoint is the path Stripe posts events to.
const WebhookEndpoint = "/api/webhooks/stripe"

// PriceIDs are the Stripe prices of the subscription products.
type PriceIDs struct {
	GuruPass          string `json:"guruPass"`
	SkillVerification string `json:"skillVerification"`
	TrustSafety       string `json:"trustSafety"`
}

// PaymentConfig is what the client needs to start a checkout.
type PaymentConfig struct {
	PublishableKey  string   `json:"publishableKey"`
	PriceIDs        PriceIDs `json:"priceIds"`
	WebhookEndpoint string   `json:"webhookEndpoint"`
}

// CreatePaymentInput is a new charge.
type CreatePaymentInput struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	Description string          `json:"description" validate:"max=255"`
	ExchangeID  string          `json:"exchangeId"`
}

// PaymentIntentResult is returned to the client to confirm the charge.
type PaymentIntentResult struct {
	ClientSecret string         `json:"clientSecret"`
	Payment      *model.Payment `json:"payment"`
}

// SubscriptionState is the stored subscription of a user.
type SubscriptionState struct {
	UserID    string     `json:"userId"`
	Status    string     `json:"status"`
	Active    bool       `json:"active"`
	PeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

// PaymentService creates charges and reports payment state.
type PaymentService interface {
	Config() PaymentConfig
	CreateIntent(ctx context.Context, caller auth.Identity, in CreatePaymentInput) (*PaymentIntentResult, error)
	List(ctx context.Context, uid string) ([]model.Payment, error)
	Subscription(ctx context.Context, caller auth.Identity, userID string) (*SubscriptionState, error)
}

type paymentService struct {
	gateway        billing.Gateway
	users          repository.UserRepository
	payments       repository.PaymentRepository
	exchanges      repository.ExchangeRepository
	publishableKey string
	prices         PriceIDs
	log            *zap.Logger
}

// NewPaymentService builds a PaymentService. gateway is nil when Stripe is
// not configured.
func NewPaymentService(
	gateway billing.Gateway,
	users repository.UserRepository,
	payments repository.PaymentRepository,
	exchanges repository.ExchangeRepository,
	publishableKey string,
	prices PriceIDs,
	log *zap.Logger,
) PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &paymentService{
		gateway:        gateway,
		users:          users,
		payments:       payments,
		exchanges:      exchanges,
		publishableKey: publishableKey,
		prices:         prices,
		log:            log,
	}
}

func (s *paymentService) Config() PaymentConfig {
	return PaymentConfig{
		PublishableKey:  s.publishableKey,
		PriceIDs:        s.prices,
		WebhookEndpoint: WebhookEndpoint,
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, caller auth.Identity, in CreatePaymentInput) (*PaymentIntentResult, error) {
	if s.gateway == nil {
		return nil, apperrors.ErrStripeNotConfigured
	}
	code := strings.TrimSpace(in.Currency)
	if code == "" {
		code = "usd"
	}
	cur, ok := billing.LookupCurrency(code)
	if !ok {
		return nil, apperrors.Invalid("Unsupported currency").
			WithMeta("supported", billing.SupportedCurrencies())
	}
	if in.Amount.LessThan(cur.Minimum) {
		return nil, apperrors.ErrInvalidAmount.WithMeta("minimum", cur.Minimum.StringFixed(cur.Exponent))
	}
	currency := strings.ToUpper(cur.Code)

	var exchangeID *uuid.UUID
	if in.ExchangeID != "" {
		id, err := uuid.Parse(in.ExchangeID)
		if err != nil {
			return nil, apperrors.Invalid("exchangeId must be a UUID")
		}
		ex, err := s.exchanges.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, apperrors.ErrExchangeNotFound)
		}
		if !ex.IsParticipant(caller.UID) {
			return nil, apperrors.ErrForbidden
		}
		exchangeID = &id
	}

	user, err := s.users.FindByID(ctx, caller.UID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	if user.StripeCustomerID == "" {
		email := user.Email
		if email == "" {
			email = caller.Email
		}
		customerID, err := s.gateway.CreateCustomer(ctx, email, user.DisplayName, user.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to create Stripe customer")
		}
		if err := s.users.UpdateFields(ctx, user.ID, map[string]any{"stripe_customer_id": customerID}); err != nil {
			return nil, err
		}
		user.StripeCustomerID = customerID
	}

	payment := &model.Payment{
		UserID:      user.ID,
		ExchangeID:  exchangeID,
		Amount:      cur.Round(in.Amount),
		Currency:    currency,
		Status:      model.PaymentStatusPending,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	meta := map[string]string{"userId": user.ID, "paymentId": payment.ID.String()}
	if exchangeID != nil {
		meta["exchangeId"] = exchangeID.String()
	}
	pi, err := s.gateway.CreatePaymentIntent(ctx, billing.PaymentIntentInput{
		AmountMinor: cur.ToMinorUnits(payment.Amount),
		Currency:    currency,
		CustomerID:  user.StripeCustomerID,
		Description: payment.Description,
		Metadata:    meta,
	})
	if err != nil {
		payment.Status = model.PaymentStatusFailed
		payment.FailureMessage = truncate(err.Error(), 255)
		if uerr := s.payments.Update(ctx, payment); uerr != nil {
			s.log.Error("mark payment failed", zap.String("payment_id", payment.ID.String()), zap.Error(uerr))
		}
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to create payment intent")
	}

	payment.StripePaymentIntentID = pi.ID
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	return &PaymentIntentResult{ClientSecret: pi.ClientSecret, Payment: payment}, nil
}

func (s *paymentService) List(ctx context.Context, uid string) ([]model.Payment, error) {
	out, err := s.payments.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Payment{}
	}
	return out, nil
}

func (s *paymentService) Subscription(ctx context.Context, caller auth.Identity, userID string) (*SubscriptionState, error) {
	if caller.UID != userID && !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	status := u.SubscriptionStatus
	if status == "" {
		status = "none"
	}
	return &SubscriptionState{
		UserID:    u.ID,
		Status:    status,
		Active:    status == "active" || status == "trialing",
		PeriodEnd: u.SubscriptionPeriodEnd,
	}, nil
}
