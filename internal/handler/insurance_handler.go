package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"yoohoo/internal/service"
)

// InsuranceHandler serves provider insurance submissions and reviews.
type InsuranceHandler struct {
	insurance service.InsuranceService
}

// NewInsuranceHandler creates an insurance handler.
func NewInsuranceHandler(insurance service.InsuranceService) *InsuranceHandler {
	return &InsuranceHandler{insurance: insurance}
}

// Types godoc
// @Summary Insurance types, optionally for one skill category
// @Tags insurance
// @Produce json
// @Param skillCategory query string false "Skill category"
// @Success 200 {object} Response
// @Router /insurance/types [get]
func (h *InsuranceHandler) Types(c echo.Context) error {
	return ok(c, http.StatusOK, h.insurance.Types(c.QueryParam("skillCategory")))
}

// Submit godoc
// @Summary Submit an insurance policy for verification
// @Tags insurance
// @Accept json
// @Produce json
// @Param request body service.SubmitInsuranceInput true "Policy"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /insurance/submit [post]
func (h *InsuranceHandler) Submit(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.SubmitInsuranceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	sub, err := h.insurance.Submit(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, sub)
}

// Status godoc
// @Summary Caller's insurance records and compliance score
// @Tags insurance
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /insurance/status [get]
func (h *InsuranceHandler) Status(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	st, err := h.insurance.Status(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, st)
}

// Requirements godoc
// @Summary Insurance a skill category requires
// @Tags insurance
// @Produce json
// @Param skillCategory path string true "Skill category"
// @Param userId query string false "Check this user's compliance"
// @Success 200 {object} Response
// @Router /insurance/requirements/{skillCategory} [get]
func (h *InsuranceHandler) Requirements(c echo.Context) error {
	req, err := h.insurance.Requirements(c.Request().Context(), c.Param("skillCategory"), c.QueryParam("userId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, req)
}

// Verify godoc
// @Summary Approve or reject an insurance policy
// @Tags insurance
// @Accept json
// @Produce json
// @Param insuranceId path string true "Insurance ID"
// @Param request body service.VerifyInsuranceInput true "Decision"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /insurance/admin/verify/{insuranceId} [put]
func (h *InsuranceHandler) Verify(c echo.Context) error {
	admin, err := caller(c)
	if err != nil {
		return err
	}
	insuranceID, err := uuidParam(c, "insuranceId")
	if err != nil {
		return err
	}
	var in service.VerifyInsuranceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.insurance.Verify(c.Request().Context(), admin.UID, insuranceID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

// Expiring godoc
// @Summary Caller's policies ending soon
// @Tags insurance
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /insurance/expiring [get]
func (h *InsuranceHandler) Expiring(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.insurance.Expiring(c.Request().Context(), id.UID, queryInt(c, "days", 30))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// ReminderPreferences godoc
// @Summary Caller's expiry reminder settings
// @Tags insurance
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /insurance/reminder-preferences [get]
func (h *InsuranceHandler) ReminderPreferences(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	prefs, err := h.insurance.ReminderPrefs(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, prefs)
}

// UpdateReminderPreferences godoc
// @Summary Change expiry reminder settings
// @Tags insurance
// @Accept json
// @Produce json
// @Param request body service.ReminderPrefsInput true "Settings"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /insurance/reminder-preferences [put]
func (h *InsuranceHandler) UpdateReminderPreferences(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.ReminderPrefsInput
	if err := bind(c, &in); err != nil {
		return err
	}
	prefs, err := h.insurance.UpdateReminderPrefs(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, prefs)
}

// Stats godoc
// @Summary Insurance submission statistics
// @Tags insurance
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /insurance/stats [get]
func (h *InsuranceHandler) Stats(c echo.Context) error {
	st, err := h.insurance.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, st)
}
