package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/service"
)

// UserHandler serves the public user directory.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// TierRequest changes a user's tier.
type TierRequest struct {
	Tier string `json:"tier" validate:"required"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param tier query string false "Tier filter"
// @Param skills query string false "Comma separated skills"
// @Param location query string false "Location substring"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	q := service.ListUsersQuery{
		Tier:     strings.TrimSpace(c.QueryParam("tier")),
		Location: strings.TrimSpace(c.QueryParam("location")),
		Limit:    queryInt(c, "limit", 50),
		Offset:   queryInt(c, "offset", 0),
	}
	if raw := c.QueryParam("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				q.Skills = append(q.Skills, s)
			}
		}
	}
	users, total, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return okWithMeta(c, users, PageMeta{Total: total, Limit: q.Limit, Offset: q.Offset})
}

// GetUser godoc
// @Summary Get a public profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	u, err := h.svc.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, u)
}

// SearchBySkills godoc
// @Summary Search users by skill
// @Tags users
// @Produce json
// @Param q query string true "Skill"
// @Param type query string false "both, offered or wanted" default(both)
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/search/skills [get]
func (h *UserHandler) SearchBySkills(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return apperrors.Invalid("Search query is required")
	}
	kind := c.QueryParam("type")
	if kind == "" {
		kind = "both"
	}
	hits, err := h.svc.SearchBySkill(c.Request().Context(), q, kind)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, hits)
}

// Stats godoc
// @Summary User activity stats
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, st)
}

// UpdateTier godoc
// @Summary Change a user's tier
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body TierRequest true "New tier"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/tier [put]
func (h *UserHandler) UpdateTier(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req TierRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.svc.UpdateTier(c.Request().Context(), id, c.Param("id"), req.Tier)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, u)
}
