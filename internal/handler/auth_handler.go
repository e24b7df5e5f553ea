package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"yoohoo/internal/auth"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/service"
)

// AuthHandler serves the caller's own profile and token checks.
type AuthHandler struct {
	users    service.UserService
	verifier auth.TokenVerifier
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users service.UserService, verifier auth.TokenVerifier) *AuthHandler {
	return &AuthHandler{users: users, verifier: verifier}
}

// VerifyRequest carries a Firebase ID token.
type VerifyRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// VerifyResponse is the identity behind a verified token.
type VerifyResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// Profile godoc
// @Summary Get own profile
// @Description Creates the profile from the token on first call.
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	u, err := h.users.EnsureProfile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, u)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.ProfileUpdate true "Profile fields"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var upd service.ProfileUpdate
	if err := bind(c, &upd); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.users.EnsureProfile(ctx, id); err != nil {
		return err
	}
	u, err := h.users.UpdateProfile(ctx, id.UID, upd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, u)
}

// Verify godoc
// @Summary Verify an ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "ID token"
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if h.verifier == nil {
		return apperrors.ErrUnauthorized
	}
	id, err := h.verifier.Verify(c.Request().Context(), req.IDToken)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeUnauthorized, "Invalid token").
			WithMeta("hint", auth.MessageForCode(auth.ErrorCode(err)))
	}
	return ok(c, http.StatusOK, VerifyResponse{UID: id.UID, Email: id.Email})
}

// AdminHandler serves the admin console session and dashboard.
type AdminHandler struct {
	auth   service.AuthService
	admin  service.AdminService
	secure bool
}

// NewAdminHandler creates the admin console handler. secure marks the session
// cookie Secure.
func NewAdminHandler(authService service.AuthService, admin service.AdminService, secure bool) *AdminHandler {
	return &AdminHandler{auth: authService, admin: admin, secure: secure}
}

// AdminLoginRequest carries the admin key.
type AdminLoginRequest struct {
	Key string `json:"key" validate:"required"`
}

func (h *AdminHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     auth.AdminCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Login godoc
// @Summary Admin console login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Admin key"
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Invalid("Invalid request body")
	}
	sess, err := h.auth.Login(c.Request().Context(), req.Key)
	if err != nil {
		return err
	}
	c.SetCookie(h.sessionCookie(sess.Token, sess.ExpiresAt))
	return ok(c, http.StatusOK, sess)
}

// Logout godoc
// @Summary Admin console logout
// @Tags admin
// @Produce json
// @Success 200 {object} Response
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(auth.AdminCookieName); err == nil {
		if err := h.auth.Logout(c.Request().Context(), ck.Value); err != nil {
			return err
		}
	}
	expired := h.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	c.SetCookie(expired)
	return ok(c, http.StatusOK, map[string]bool{"loggedOut": true})
}

// Ping godoc
// @Summary Check the admin session
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/ping [get]
func (h *AdminHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"success": true, "authenticated": true})
}

// Dashboard godoc
// @Summary Platform counters
// @Tags admin
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.admin.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, d)
}

// FlagUpdateRequest toggles a flag. Enabled is a pointer so a missing or
// non-boolean value is rejected.
type FlagUpdateRequest struct {
	Enabled *bool `json:"enabled"`
}

// FlagsResponse lists feature flags.
type FlagsResponse struct {
	Success bool            `json:"success"`
	Flags   map[string]bool `json:"flags"`
}

// PublicFlags godoc
// @Summary Public feature flags
// @Tags feature-flags
// @Produce json
// @Success 200 {object} FlagsResponse
// @Router /feature-flags [get]
func (h *AdminHandler) PublicFlags(c echo.Context) error {
	return c.JSON(http.StatusOK, FlagsResponse{Success: true, Flags: h.admin.PublicFlags()})
}

// AllFlags godoc
// @Summary All feature flags
// @Tags feature-flags
// @Produce json
// @Success 200 {object} FlagsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /feature-flags/admin [get]
func (h *AdminHandler) AllFlags(c echo.Context) error {
	return c.JSON(http.StatusOK, FlagsResponse{Success: true, Flags: h.admin.AllFlags()})
}

// UpdateFlag godoc
// @Summary Toggle a feature flag
// @Tags feature-flags
// @Accept json
// @Produce json
// @Param flagName path string true "Flag name"
// @Param request body FlagUpdateRequest true "New value"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feature-flags/admin/{flagName} [patch]
func (h *AdminHandler) UpdateFlag(c echo.Context) error {
	if !h.admin.WritesEnabled() {
		return apperrors.ErrAdminWriteDisabled
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return apperrors.Invalid("enabled must be a boolean")
	}
	name := c.Param("flagName")
	if err := h.admin.UpdateFlag(c.Request().Context(), name, *req.Enabled); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"flag":    name,
		"enabled": *req.Enabled,
	})
}
