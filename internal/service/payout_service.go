package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"yoohoo/internal/auth"
	"yoohoo/internal/billing"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// ConnectStart is the onboarding link for a Connect account.
type ConnectStart struct {
	URL       string `json:"url"`
	AccountID string `json:"accountId"`
}

// ConnectStatus reports a user's Connect account readiness.
type ConnectStatus struct {
	Connected bool   `json:"connected"`
	AccountID string `json:"accountId,omitempty"`
	*billing.AccountStatus
}

// BalanceResult is a Connect balance, or connected=false.
type BalanceResult struct {
	Connected bool             `json:"connected"`
	AccountID string           `json:"accountId,omitempty"`
	Balance   *billing.Balance `json:"balance,omitempty"`
}

// InstantPayoutInput requests an instant payout. A missing, zero or negative
// amount pays out the whole instant balance.
type InstantPayoutInput struct {
	AmountCents *int64 `json:"amountCents"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
}

// PayoutService manages Stripe Connect onboarding and payouts.
type PayoutService interface {
	Start(ctx context.Context, caller auth.Identity) (*ConnectStart, error)
	Status(ctx context.Context, uid string) (*ConnectStatus, error)
	ExpressLogin(ctx context.Context, uid string) (string, error)
	Balance(ctx context.Context, uid string) (*BalanceResult, error)
	InstantPayout(ctx context.Context, uid string, in InstantPayoutInput) (*billing.Payout, error)
}

type payoutService struct {
	gateway billing.Gateway
	users   repository.UserRepository
	baseURL string
	log     *zap.Logger
}

// NewPayoutService builds a PayoutService. gateway is nil when Stripe is not configured.
func NewPayoutService(gateway billing.Gateway, users repository.UserRepository, publicBaseURL string, log *zap.Logger) PayoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &payoutService{
		gateway: gateway,
		users:   users,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		log:     log,
	}
}

func (s *payoutService) user(ctx context.Context, uid string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return u, nil
}

func (s *payoutService) Start(ctx context.Context, caller auth.Identity) (*ConnectStart, error) {
	if s.gateway == nil {
		return nil, apperrors.ErrStripeNotConfigured
	}
	u, err := s.user(ctx, caller.UID)
	if err != nil {
		return nil, err
	}

	accountID := u.StripeAccountID
	if accountID == "" {
		email := u.Email
		if email == "" {
			email = caller.Email
		}
		accountID, err = s.gateway.CreateExpressAccount(ctx, email, u.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to start onboarding")
		}
		if err := s.users.UpdateFields(ctx, u.ID, map[string]any{
			"stripe_account_id": accountID,
			"payouts_ready":     false,
		}); err != nil {
			return nil, err
		}
	}

	link, err := s.gateway.OnboardingLink(ctx, accountID, s.baseURL+"/connect/refresh", s.baseURL+"/connect/return")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to start onboarding")
	}
	return &ConnectStart{URL: link, AccountID: accountID}, nil
}

func (s *payoutService) Status(ctx context.Context, uid string) (*ConnectStatus, error) {
	u, err := s.user(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.StripeAccountID == "" {
		return &ConnectStatus{Connected: false}, nil
	}
	if s.gateway == nil {
		return nil, apperrors.ErrStripeNotConfigured
	}

	st, err := s.gateway.AccountStatus(ctx, u.StripeAccountID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to load status")
	}
	ready := st.ChargesEnabled && st.PayoutsEnabled && st.DetailsSubmitted
	if ready != u.PayoutsReady {
		if err := s.users.UpdateFields(ctx, u.ID, map[string]any{"payouts_ready": ready}); err != nil {
			s.log.Warn("persist payout readiness", zap.String("user_id", u.ID), zap.Error(err))
		}
	}
	return &ConnectStatus{Connected: true, AccountID: u.StripeAccountID, AccountStatus: st}, nil
}

func (s *payoutService) ExpressLogin(ctx context.Context, uid string) (string, error) {
	if s.gateway == nil {
		return "", apperrors.ErrStripeNotConfigured
	}
	u, err := s.user(ctx, uid)
	if err != nil {
		return "", err
	}
	if u.StripeAccountID == "" {
		return "", apperrors.ErrNotConnected
	}
	link, err := s.gateway.LoginLink(ctx, u.StripeAccountID)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to create login link")
	}
	return link, nil
}

func (s *payoutService) Balance(ctx context.Context, uid string) (*BalanceResult, error) {
	if s.gateway == nil {
		return nil, apperrors.ErrStripeNotConfigured
	}
	u, err := s.user(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.StripeAccountID == "" {
		return &BalanceResult{Connected: false}, nil
	}
	bal, err := s.gateway.Balance(ctx, u.StripeAccountID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to retrieve balance")
	}
	return &BalanceResult{Connected: true, AccountID: u.StripeAccountID, Balance: bal}, nil
}

func (s *payoutService) InstantPayout(ctx context.Context, uid string, in InstantPayoutInput) (*billing.Payout, error) {
	if s.gateway == nil {
		return nil, apperrors.ErrStripeNotConfigured
	}
	u, err := s.user(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.StripeAccountID == "" {
		return nil, apperrors.ErrNotConnected
	}
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "usd"
	}

	bal, err := s.gateway.Balance(ctx, u.StripeAccountID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to retrieve balance")
	}
	available, ok := bal.InstantAmount(currency)
	if !ok || available <= 0 {
		return nil, apperrors.ErrNoInstantBalance.WithMeta("currency", currency)
	}

	amount := available
	if in.AmountCents != nil && *in.AmountCents > 0 {
		amount = *in.AmountCents
	}
	if amount > available {
		return nil, apperrors.ErrAmountExceedsBalance.WithMeta("instantAvailable", available)
	}

	payout, err := s.gateway.InstantPayout(ctx, u.StripeAccountID, amount, currency)
	if err != nil {
		if msg, ok := billing.PayoutErrorMessage(err); ok {
			return nil, apperrors.Wrap(err, apperrors.CodeInvalid, msg).WithMeta("stripeCode", billing.ErrorCode(err))
		}
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to create instant payout")
	}
	s.log.Info("instant payout created",
		zap.String("user_id", u.ID),
		zap.String("payout_id", payout.ID),
		zap.Int64("amount", payout.Amount),
		zap.String("currency", payout.Currency),
	)
	return payout, nil
}
