package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"yoohoo/internal/catalog"
	"yoohoo/internal/service"
)

// SkillHandler serves the skill catalog and matching.
type SkillHandler struct {
	svc service.SkillService
}

// NewSkillHandler creates a skill handler.
func NewSkillHandler(svc service.SkillService) *SkillHandler {
	return &SkillHandler{svc: svc}
}

// CategoriesResponse is the categorization table.
type CategoriesResponse struct {
	Categories []catalog.SkillCategory `json:"categories"`
	Names      []string                `json:"names"`
	HighRisk   []string                `json:"highRisk"`
}

// Categories godoc
// @Summary Skill categories
// @Tags skills
// @Produce json
// @Success 200 {object} Response
// @Router /skills/categories [get]
func (h *SkillHandler) Categories(c echo.Context) error {
	return ok(c, http.StatusOK, CategoriesResponse{
		Categories: catalog.SkillCategories(),
		Names:      catalog.CategoryNames(),
		HighRisk:   catalog.HighRiskCategories(),
	})
}

// List godoc
// @Summary Skill catalog
// @Tags skills
// @Produce json
// @Param category query string false "Category name"
// @Param search query string false "Name substring"
// @Param popular query bool false "Top 20 only"
// @Success 200 {object} Response
// @Router /skills [get]
func (h *SkillHandler) List(c echo.Context) error {
	entries, err := h.svc.List(c.Request().Context(), service.SkillQuery{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Popular:  c.QueryParam("popular") == "true",
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, entries)
}

// Get godoc
// @Summary Teachers and learners of a skill
// @Tags skills
// @Produce json
// @Param skillName path string true "Skill name"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /skills/{skillName} [get]
func (h *SkillHandler) Get(c echo.Context) error {
	entry, err := h.svc.Get(c.Request().Context(), c.Param("skillName"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, entry)
}

// Autocomplete godoc
// @Summary Skill name suggestions
// @Tags skills
// @Produce json
// @Param q query string true "Prefix"
// @Param limit query int false "Max results" default(10)
// @Success 200 {object} Response
// @Router /skills/suggestions/autocomplete [get]
func (h *SkillHandler) Autocomplete(c echo.Context) error {
	out, err := h.svc.Autocomplete(c.Request().Context(), c.QueryParam("q"), queryInt(c, "limit", 10))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// Matches godoc
// @Summary Scored matches for a user
// @Tags skills
// @Produce json
// @Param userId path string true "User ID"
// @Param limit query int false "Max results" default(10)
// @Param minScore query int false "Minimum score" default(5)
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /skills/matches/{userId} [get]
func (h *SkillHandler) Matches(c echo.Context) error {
	out, err := h.svc.Matches(c.Request().Context(), c.Param("userId"), queryInt(c, "limit", 10), queryInt(c, "minScore", 5))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// ExchangePairs godoc
// @Summary Mutual exchange pairs
// @Tags skills
// @Produce json
// @Param limit query int false "Max results" default(20)
// @Param minScore query int false "Minimum score" default(10)
// @Success 200 {object} Response
// @Router /skills/exchange-pairs [get]
func (h *SkillHandler) ExchangePairs(c echo.Context) error {
	out, err := h.svc.ExchangePairs(c.Request().Context(), queryInt(c, "limit", 20), queryInt(c, "minScore", 10))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}
