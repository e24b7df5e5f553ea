package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoohoo/internal/billing"
	"yoohoo/internal/cache"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

const (
	webhookEventPrefix = "stripe:event:"
	webhookEventTTL    = 72 * time.Hour
)

var intentStatus = map[string]model.PaymentStatus{
	"payment_intent.processing":     model.PaymentStatusProcessing,
	"payment_intent.succeeded":      model.PaymentStatusCompleted,
	"payment_intent.payment_failed": model.PaymentStatusFailed,
	"payment_intent.canceled":       model.PaymentStatusCancelled,
}

// WebhookService verifies and applies Stripe events.
type WebhookService interface {
	Handle(ctx context.Context, payload []byte, signature string) error
}

type webhookService struct {
	secret        string
	users         repository.UserRepository
	payments      repository.PaymentRepository
	exchanges     repository.ExchangeRepository
	notifications NotificationService
	cache         *cache.Client
	log           *zap.Logger
}

// NewWebhookService builds a WebhookService.
func NewWebhookService(
	secret string,
	users repository.UserRepository,
	payments repository.PaymentRepository,
	exchanges repository.ExchangeRepository,
	notifications NotificationService,
	c *cache.Client,
	log *zap.Logger,
) WebhookService {
	if log == nil {
		log = zap.NewNop()
	}
	return &webhookService{
		secret:        secret,
		users:         users,
		payments:      payments,
		exchanges:     exchanges,
		notifications: notifications,
		cache:         c,
		log:           log,
	}
}

func (s *webhookService) Handle(ctx context.Context, payload []byte, signature string) error {
	if s.secret == "" {
		return apperrors.ErrWebhookSecretNotSet
	}
	event, err := billing.ParseWebhook(payload, signature, s.secret)
	if err != nil {
		s.log.Warn("stripe webhook signature rejected", zap.Error(err))
		return apperrors.ErrInvalidSignature
	}

	key := webhookEventPrefix + event.ID
	if !s.cache.SetNX(ctx, key, []byte(event.Type), webhookEventTTL) {
		s.log.Info("stripe event already processed", zap.String("event_id", event.ID))
		return nil
	}

	if err := s.dispatch(ctx, event); err != nil {
		// let Stripe's retry reprocess it
		_ = s.cache.Delete(ctx, key)
		s.log.Error("stripe event failed",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *webhookService) dispatch(ctx context.Context, event stripe.Event) error {
	typ := string(event.Type)
	var raw json.RawMessage
	if event.Data != nil {
		raw = event.Data.Raw
	}

	switch {
	case strings.HasPrefix(typ, "payment_intent."):
		status, ok := intentStatus[typ]
		if !ok {
			break
		}
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(raw, &pi); err != nil {
			return err
		}
		return s.paymentIntent(ctx, &pi, status)

	case typ == "charge.refunded":
		var ch stripe.Charge
		if err := json.Unmarshal(raw, &ch); err != nil {
			return err
		}
		if ch.PaymentIntent == nil {
			return nil
		}
		return s.setPaymentStatus(ctx, ch.PaymentIntent.ID, nil, model.PaymentStatusRefunded, "")

	case strings.HasPrefix(typ, "customer.subscription."):
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return err
		}
		return s.subscription(ctx, &sub, typ == "customer.subscription.deleted")

	case typ == "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(raw, &cs); err != nil {
			return err
		}
		return s.checkoutCompleted(ctx, &cs)

	case typ == "account.updated":
		var acct stripe.Account
		if err := json.Unmarshal(raw, &acct); err != nil {
			return err
		}
		ready := acct.ChargesEnabled && acct.PayoutsEnabled && acct.DetailsSubmitted
		u, err := s.users.FindByStripeAccount(ctx, acct.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("account.updated for unknown account", zap.String("account_id", acct.ID))
			return nil
		}
		if err != nil {
			return err
		}
		return s.users.UpdateFields(ctx, u.ID, map[string]any{"payouts_ready": ready})
	}

	s.log.Info("unhandled stripe event", zap.String("type", typ), zap.String("event_id", event.ID))
	return nil
}

func (s *webhookService) paymentIntent(ctx context.Context, pi *stripe.PaymentIntent, status model.PaymentStatus) error {
	var failure string
	if pi.LastPaymentError != nil {
		failure = pi.LastPaymentError.Msg
	}
	return s.setPaymentStatus(ctx, pi.ID, pi.Metadata, status, failure)
}

func (s *webhookService) setPaymentStatus(ctx context.Context, intentID string, meta map[string]string, status model.PaymentStatus, failure string) error {
	p, err := s.payments.FindByIntentID(ctx, intentID)
	if errors.Is(err, gorm.ErrRecordNotFound) && meta["paymentId"] != "" {
		if id, perr := uuid.Parse(meta["paymentId"]); perr == nil {
			p, err = s.payments.FindByID(ctx, id)
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("stripe event for unknown payment", zap.String("intent_id", intentID))
		return nil
	}
	if err != nil {
		return err
	}
	if p.Status == status {
		return nil
	}

	p.Status = status
	if p.StripePaymentIntentID == "" {
		p.StripePaymentIntentID = intentID
	}
	if failure != "" {
		p.FailureMessage = truncate(failure, 255)
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return err
	}
	s.log.Info("payment status updated",
		zap.String("payment_id", p.ID.String()),
		zap.String("status", string(status)),
	)

	if status == model.PaymentStatusCompleted && p.ExchangeID != nil {
		s.notifyProvider(ctx, p)
	}
	return nil
}

func (s *webhookService) notifyProvider(ctx context.Context, p *model.Payment) {
	ex, err := s.exchanges.FindByID(ctx, *p.ExchangeID)
	if err != nil {
		s.log.Warn("payment exchange lookup", zap.String("payment_id", p.ID.String()), zap.Error(err))
		return
	}
	if ex.ProviderID == p.UserID {
		return
	}
	err = s.notifications.Notify(ctx, ex.ProviderID, model.NotificationPaymentReceived,
		"Payment received",
		"You received a payment of "+billing.FormatAmount(p.Amount, p.Currency)+" for "+ex.SkillOffered,
		map[string]string{"exchangeId": ex.ID.String(), "paymentId": p.ID.String()},
	)
	if err != nil {
		s.log.Warn("payment notification", zap.String("payment_id", p.ID.String()), zap.Error(err))
	}
}

func (s *webhookService) subscription(ctx context.Context, sub *stripe.Subscription, deleted bool) error {
	if sub.Customer == nil {
		return nil
	}
	u, err := s.users.FindByStripeCustomer(ctx, sub.Customer.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("subscription for unknown customer", zap.String("customer_id", sub.Customer.ID))
		return nil
	}
	if err != nil {
		return err
	}

	status := string(sub.Status)
	if deleted {
		status = string(stripe.SubscriptionStatusCanceled)
	}
	fields := map[string]any{
		"subscription_id":     sub.ID,
		"subscription_status": status,
	}
	if sub.CurrentPeriodEnd > 0 {
		fields["subscription_period_end"] = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}
	return s.users.UpdateFields(ctx, u.ID, fields)
}

func (s *webhookService) checkoutCompleted(ctx context.Context, cs *stripe.CheckoutSession) error {
	uid := cs.ClientReferenceID
	if uid == "" {
		uid = cs.Metadata["userId"]
	}
	if uid == "" || cs.Customer == nil || cs.Customer.ID == "" {
		s.log.Info("checkout session without user reference", zap.String("session_id", cs.ID))
		return nil
	}
	u, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("checkout session for unknown user", zap.String("user_id", uid))
		return nil
	}
	if err != nil {
		return err
	}
	if u.StripeCustomerID == cs.Customer.ID {
		return nil
	}
	return s.users.UpdateFields(ctx, u.ID, map[string]any{"stripe_customer_id": cs.Customer.ID})
}
