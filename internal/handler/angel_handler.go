package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"yoohoo/internal/service"
)

// AngelHandler serves the Angel's List odd-job board.
type AngelHandler struct {
	angels service.AngelService
}

// NewAngelHandler creates an odd-job handler.
func NewAngelHandler(angels service.AngelService) *AngelHandler {
	return &AngelHandler{angels: angels}
}

// CreateJob godoc
// @Summary Post an odd job
// @Tags angels
// @Accept json
// @Produce json
// @Param request body service.CreateAngelJobInput true "Job"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /angels/jobs [post]
func (h *AngelHandler) CreateJob(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.CreateAngelJobInput
	if err := bind(c, &in); err != nil {
		return err
	}
	job, err := h.angels.CreateJob(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, job)
}

// ListJobs godoc
// @Summary Browse odd jobs, featured first
// @Tags angels
// @Produce json
// @Param category query string false "Category"
// @Param location query string false "City substring"
// @Param urgency query string false "Urgency"
// @Param status query string false "Status, or all" default(open)
// @Param search query string false "Title or description substring"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} Response
// @Router /angels/jobs [get]
func (h *AngelHandler) ListJobs(c echo.Context) error {
	page, err := h.angels.ListJobs(c.Request().Context(), service.AngelJobQuery{
		Category: c.QueryParam("category"),
		City:     c.QueryParam("location"),
		Urgency:  c.QueryParam("urgency"),
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, page)
}

// GetJob godoc
// @Summary Odd job details with its poster
// @Tags angels
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /angels/jobs/{jobId} [get]
func (h *AngelHandler) GetJob(c echo.Context) error {
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}
	job, err := h.angels.GetJob(c.Request().Context(), jobID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, job)
}

// Apply godoc
// @Summary Apply to an odd job
// @Tags angels
// @Accept json
// @Produce json
// @Param jobId path string true "Job ID"
// @Param request body service.ApplyInput true "Application"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /angels/jobs/{jobId}/apply [post]
func (h *AngelHandler) Apply(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}
	var in service.ApplyInput
	if err := bind(c, &in); err != nil {
		return err
	}
	app, err := h.angels.Apply(c.Request().Context(), id.UID, jobID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, app)
}

// Applications godoc
// @Summary Applications on one of the caller's jobs
// @Tags angels
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /angels/jobs/{jobId}/applications [get]
func (h *AngelHandler) Applications(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}
	apps, err := h.angels.Applications(c.Request().Context(), id.UID, jobID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, apps)
}

// Respond godoc
// @Summary Accept or reject an application
// @Tags angels
// @Accept json
// @Produce json
// @Param jobId path string true "Job ID"
// @Param applicantId path string true "Applicant user ID"
// @Param request body service.RespondInput true "Decision"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /angels/jobs/{jobId}/applications/{applicantId} [put]
func (h *AngelHandler) Respond(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}
	var in service.RespondInput
	if err := bind(c, &in); err != nil {
		return err
	}
	app, err := h.angels.Respond(c.Request().Context(), id.UID, jobID, c.Param("applicantId"), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, app)
}

// Complete godoc
// @Summary Mark an odd job completed
// @Tags angels
// @Accept json
// @Produce json
// @Param jobId path string true "Job ID"
// @Param request body service.CompleteJobInput false "Rating and review"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /angels/jobs/{jobId}/complete [put]
func (h *AngelHandler) Complete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}
	var in service.CompleteJobInput
	if err := bind(c, &in); err != nil {
		return err
	}
	job, err := h.angels.Complete(c.Request().Context(), id.UID, jobID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, job)
}

// MyActivity godoc
// @Summary Jobs the caller posted and applied to
// @Tags angels
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /angels/my-activity [get]
func (h *AngelHandler) MyActivity(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	act, err := h.angels.MyActivity(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, act)
}
