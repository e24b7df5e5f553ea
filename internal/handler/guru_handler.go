package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/middleware"
	"yoohoo/internal/service"
)

// GuruHandler serves the per-subdomain guru websites.
type GuruHandler struct {
	sites service.GuruSiteService
}

// NewGuruHandler creates a guru site handler.
func NewGuruHandler(sites service.GuruSiteService) *GuruHandler {
	return &GuruHandler{sites: sites}
}

func guru(c echo.Context) (catalog.Guru, error) {
	g, ok := middleware.GuruFrom(c)
	if !ok {
		return catalog.Guru{}, apperrors.ErrGuruRequired
	}
	return g, nil
}

// Home godoc
// @Summary Guru landing page
// @Tags gurus
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /gurus/{subdomain}/home [get]
func (h *GuruHandler) Home(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	home, err := h.sites.Home(c.Request().Context(), g)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, home)
}

// Posts godoc
// @Summary Published posts on a guru site
// @Tags gurus
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Param tag query string false "Tag"
// @Param category query string false "Category"
// @Param search query string false "Title, excerpt or content substring"
// @Param featured query bool false "Featured only"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(12)
// @Success 200 {object} Response
// @Router /gurus/{subdomain}/posts [get]
func (h *GuruHandler) Posts(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	featured, _ := strconv.ParseBool(c.QueryParam("featured"))
	page, err := h.sites.Posts(c.Request().Context(), g, service.PostQuery{
		Tag:      c.QueryParam("tag"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Featured: featured,
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 12),
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, page)
}

// Post godoc
// @Summary One published post with related posts
// @Tags gurus
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Param slug path string true "Post slug"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /gurus/{subdomain}/posts/{slug} [get]
func (h *GuruHandler) Post(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	view, err := h.sites.Post(c.Request().Context(), g, c.Param("slug"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, view)
}

// SubmitLead godoc
// @Summary Contact form submission
// @Tags gurus
// @Accept json
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Param request body service.LeadInput true "Lead"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Router /gurus/{subdomain}/leads [post]
func (h *GuruHandler) SubmitLead(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	var in service.LeadInput
	if err := bind(c, &in); err != nil {
		return err
	}
	receipt, err := h.sites.SubmitLead(c.Request().Context(), g, in, service.LeadOrigin{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, receipt)
}

// Services godoc
// @Summary Services a guru site offers
// @Tags gurus
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Success 200 {object} Response
// @Router /gurus/{subdomain}/services [get]
func (h *GuruHandler) Services(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	out, err := h.sites.Services(c.Request().Context(), g)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// About godoc
// @Summary Guru about page
// @Tags gurus
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Success 200 {object} Response
// @Router /gurus/{subdomain}/about [get]
func (h *GuruHandler) About(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	about, err := h.sites.About(c.Request().Context(), g)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, about)
}

// CreatePost godoc
// @Summary Write a post on a guru site
// @Tags gurus
// @Accept json
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Param request body service.CreatePostInput true "Post"
// @Success 201 {object} Response
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /gurus/{subdomain}/posts [post]
func (h *GuruHandler) CreatePost(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	g, err := guru(c)
	if err != nil {
		return err
	}
	var in service.CreatePostInput
	if err := bind(c, &in); err != nil {
		return err
	}
	post, err := h.sites.CreatePost(c.Request().Context(), id.UID, g, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, post)
}

// CreateService godoc
// @Summary Add a service to a guru site
// @Tags gurus
// @Accept json
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Param request body service.CreateGuruServiceInput true "Service"
// @Success 201 {object} Response
// @Security BearerAuth
// @Router /gurus/{subdomain}/services [post]
func (h *GuruHandler) CreateService(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	var in service.CreateGuruServiceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	svc, err := h.sites.CreateService(c.Request().Context(), g, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, svc)
}

// SaveAbout godoc
// @Summary Replace the guru about page
// @Tags gurus
// @Accept json
// @Produce json
// @Param subdomain path string true "Guru subdomain"
// @Param request body service.SavePageInput true "Page"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /gurus/{subdomain}/about [put]
func (h *GuruHandler) SaveAbout(c echo.Context) error {
	g, err := guru(c)
	if err != nil {
		return err
	}
	var in service.SavePageInput
	if err := bind(c, &in); err != nil {
		return err
	}
	page, err := h.sites.SaveAbout(c.Request().Context(), g, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, page)
}
