package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/service"
)

// maxWebhookPayload bounds the Stripe event body.
const maxWebhookPayload = 1 << 20

// PaymentHandler handles payment, payout and webhook endpoints.
type PaymentHandler struct {
	payments service.PaymentService
	payouts  service.PayoutService
	webhooks service.WebhookService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(payments service.PaymentService, payouts service.PayoutService, webhooks service.WebhookService) *PaymentHandler {
	return &PaymentHandler{payments: payments, payouts: payouts, webhooks: webhooks}
}

// Config godoc
// @Summary Client payment configuration
// @Tags payments
// @Produce json
// @Success 200 {object} Response
// @Router /payments/config [get]
func (h *PaymentHandler) Config(c echo.Context) error {
	return ok(c, http.StatusOK, h.payments.Config())
}

// CreatePaymentIntent godoc
// @Summary Create a payment intent
// @Tags payments
// @Accept json
// @Produce json
// @Param request body service.CreatePaymentInput true "Charge"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /payments/create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.CreatePaymentInput
	if err := bind(c, &in); err != nil {
		return err
	}
	res, err := h.payments.CreateIntent(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

// ListPayments godoc
// @Summary Own payments
// @Tags payments
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.payments.List(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// Subscription godoc
// @Summary Stored subscription state
// @Tags payments
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /payments/subscription/{userId} [get]
func (h *PaymentHandler) Subscription(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	st, err := h.payments.Subscription(c.Request().Context(), id, c.Param("userId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, st)
}

// ConnectStart godoc
// @Summary Start Stripe Connect onboarding
// @Tags payouts
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /connect/start [post]
func (h *PaymentHandler) ConnectStart(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.payouts.Start(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// ConnectStatus godoc
// @Summary Connect account readiness
// @Tags payouts
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /connect/status [get]
func (h *PaymentHandler) ConnectStatus(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.payouts.Status(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// ExpressLogin godoc
// @Summary Express dashboard login link
// @Tags payouts
// @Produce json
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /connect/express-login [post]
func (h *PaymentHandler) ExpressLogin(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	url, err := h.payouts.ExpressLogin(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]string{"url": url})
}

// Balance godoc
// @Summary Connect balance
// @Tags payouts
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /payouts/balance [get]
func (h *PaymentHandler) Balance(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.payouts.Balance(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// InstantPayout godoc
// @Summary Instant payout to the connected debit card
// @Tags payouts
// @Accept json
// @Produce json
// @Param request body service.InstantPayoutInput true "Payout"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /payouts/instant [post]
func (h *PaymentHandler) InstantPayout(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.InstantPayoutInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.payouts.InstantPayout(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

// StripeWebhook godoc
// @Summary Stripe event receiver
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *PaymentHandler) StripeWebhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookPayload))
	if err != nil {
		return apperrors.Invalid("Unreadable payload")
	}
	if err := h.webhooks.Handle(c.Request().Context(), payload, c.Request().Header.Get("Stripe-Signature")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

// CategoryHandler lists marketplace categories.
type CategoryHandler struct {
	svc service.CategoryService
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List godoc
// @Summary Marketplace categories with requirements
// @Tags categories
// @Produce json
// @Success 200 {object} Response
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, cats)
}
