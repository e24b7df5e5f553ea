package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
	"yoohoo/internal/service"
)

// ExchangeHandler serves skill exchanges and their messages.
type ExchangeHandler struct {
	svc service.ExchangeService
}

// NewExchangeHandler creates an exchange handler.
func NewExchangeHandler(svc service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{svc: svc}
}

// Create godoc
// @Summary Request an exchange
// @Tags exchanges
// @Accept json
// @Produce json
// @Param request body service.CreateExchangeInput true "Exchange request"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /exchanges [post]
func (h *ExchangeHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.CreateExchangeInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ex, err := h.svc.Create(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, ex)
}

// List godoc
// @Summary List own exchanges
// @Tags exchanges
// @Produce json
// @Param status query string false "Status filter"
// @Param role query string false "requester or provider"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /exchanges [get]
func (h *ExchangeHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	role := repository.ExchangeRole(c.QueryParam("role"))
	switch role {
	case repository.RoleAny, repository.RoleRequester, repository.RoleProvider:
	default:
		return apperrors.Invalid("role must be requester or provider")
	}
	out, err := h.svc.List(c.Request().Context(), id.UID, model.ExchangeStatus(c.QueryParam("status")), role)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// Get godoc
// @Summary Get an exchange
// @Tags exchanges
// @Produce json
// @Param id path string true "Exchange ID"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /exchanges/{id} [get]
func (h *ExchangeHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	exID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	ex, err := h.svc.Get(c.Request().Context(), id.UID, exID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, ex)
}

// Update godoc
// @Summary Change status, schedule or review an exchange
// @Tags exchanges
// @Accept json
// @Produce json
// @Param id path string true "Exchange ID"
// @Param request body service.ExchangeUpdate true "Changes"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /exchanges/{id} [patch]
func (h *ExchangeHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	exID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var upd service.ExchangeUpdate
	if err := bind(c, &upd); err != nil {
		return err
	}
	ex, err := h.svc.Update(c.Request().Context(), id.UID, exID, upd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, ex)
}

// Messages godoc
// @Summary Exchange chat history
// @Tags exchanges
// @Produce json
// @Param id path string true "Exchange ID"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /exchanges/{id}/messages [get]
func (h *ExchangeHandler) Messages(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	exID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	msgs, err := h.svc.Messages(c.Request().Context(), id.UID, exID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, msgs)
}

// SendMessage godoc
// @Summary Post a chat message
// @Tags exchanges
// @Accept json
// @Produce json
// @Param id path string true "Exchange ID"
// @Param request body service.SendMessageInput true "Message"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /exchanges/{id}/messages [post]
func (h *ExchangeHandler) SendMessage(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	exID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var in service.SendMessageInput
	if err := bind(c, &in); err != nil {
		return err
	}
	msg, err := h.svc.SendMessage(c.Request().Context(), id.UID, exID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, msg)
}

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	svc service.NotificationService
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List godoc
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Unread only"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.svc.List(c.Request().Context(), id.UID, c.QueryParam("unread") == "true")
	if err != nil {
		return err
	}
	if out == nil {
		out = []model.Notification{}
	}
	return ok(c, http.StatusOK, out)
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	nID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(c.Request().Context(), id.UID, nID); err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]bool{"read": true})
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	n, err := h.svc.MarkAllRead(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]int64{"updated": n})
}
