package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/service"
)

// ComplianceHandler serves compliance requirements, status and documents.
type ComplianceHandler struct {
	compliance service.ComplianceService
	documents  service.DocumentService
	badges     service.BadgeService
	liability  service.LiabilityService
}

// NewComplianceHandler creates a compliance handler.
func NewComplianceHandler(
	compliance service.ComplianceService,
	documents service.DocumentService,
	badges service.BadgeService,
	liability service.LiabilityService,
) *ComplianceHandler {
	return &ComplianceHandler{compliance: compliance, documents: documents, badges: badges, liability: liability}
}

// RequirementsResponse is the requirement table for one category.
type RequirementsResponse struct {
	Category     string                     `json:"skillCategory"`
	Requirements catalog.ComplianceCategory `json:"requirements"`
	LastUpdated  string                     `json:"lastUpdated"`
}

// SelectCategoriesRequest chooses the caller's compliance categories.
type SelectCategoriesRequest struct {
	Categories []string `json:"categories" validate:"required,max=9,dive,required"`
}

// DocumentReviewRequest is an admin decision on a document.
type DocumentReviewRequest struct {
	Status model.ReviewStatus `json:"status" validate:"required"`
	Notes  string             `json:"notes" validate:"max=500"`
}

// Requirements godoc
// @Summary Compliance requirements of a category
// @Tags compliance
// @Produce json
// @Param category path string true "Category slug"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /compliance/requirements/{category} [get]
func (h *ComplianceHandler) Requirements(c echo.Context) error {
	slug := c.Param("category")
	req, err := h.compliance.Requirements(slug)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, RequirementsResponse{
		Category:     slug,
		Requirements: req,
		LastUpdated:  catalog.ComplianceLastUpdated,
	})
}

// Status godoc
// @Summary Caller's compliance in a category
// @Tags compliance
// @Produce json
// @Param category path string true "Category slug"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /compliance/status/{category} [get]
func (h *ComplianceHandler) Status(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	st, err := h.compliance.Status(c.Request().Context(), id.UID, c.Param("category"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, st)
}

// Dashboard godoc
// @Summary Caller's compliance across selected categories
// @Tags compliance
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /compliance/dashboard [get]
func (h *ComplianceHandler) Dashboard(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	d, err := h.compliance.Dashboard(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, d)
}

// SetVerification godoc
// @Summary Record a verification outcome
// @Tags compliance
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body service.VerificationInput true "Decision"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /compliance/verification/{userId} [put]
func (h *ComplianceHandler) SetVerification(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.VerificationInput
	if err := bind(c, &in); err != nil {
		return err
	}
	v, err := h.compliance.SetVerification(c.Request().Context(), id.UID, c.Param("userId"), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, v)
}

// SelectCategories godoc
// @Summary Choose compliance categories
// @Tags compliance
// @Accept json
// @Produce json
// @Param request body SelectCategoriesRequest true "Category slugs"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /compliance/categories [post]
func (h *ComplianceHandler) SelectCategories(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req SelectCategoriesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.compliance.SelectCategories(c.Request().Context(), id.UID, req.Categories)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string][]string{"complianceCategories": out})
}

func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Invalid("expiresAt must be a date")
}

// UploadDocument godoc
// @Summary Upload a compliance document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Param type formData string true "Document type"
// @Param insuranceType formData string false "Insurance type"
// @Param coverageAmount formData int false "Coverage in dollars"
// @Param expiresAt formData string false "Expiry date"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /documents [post]
func (h *ComplianceHandler) UploadDocument(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperrors.Invalid("file is required")
	}
	in := service.UploadInput{
		Type:          c.FormValue("type"),
		InsuranceType: c.FormValue("insuranceType"),
		FileName:      fh.Filename,
		ContentType:   fh.Header.Get(echo.HeaderContentType),
		Size:          fh.Size,
	}
	if raw := strings.TrimSpace(c.FormValue("coverageAmount")); raw != "" {
		if in.CoverageAmount, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return apperrors.Invalid("coverageAmount must be a whole number")
		}
	}
	if in.ExpiresAt, err = parseExpiry(c.FormValue("expiresAt")); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalid, "Unreadable upload")
	}
	defer f.Close()
	in.Body = f

	doc, err := h.documents.Upload(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, doc)
}

// ListDocuments godoc
// @Summary List own documents
// @Tags documents
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /documents [get]
func (h *ComplianceHandler) ListDocuments(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	docs, err := h.documents.List(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, docs)
}

// DeleteDocument godoc
// @Summary Remove a pending document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *ComplianceHandler) DeleteDocument(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	docID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.documents.Delete(c.Request().Context(), id.UID, docID); err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]bool{"deleted": true})
}

// PendingDocuments godoc
// @Summary Documents awaiting review
// @Tags admin
// @Produce json
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/documents/pending [get]
func (h *ComplianceHandler) PendingDocuments(c echo.Context) error {
	docs, err := h.documents.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, docs)
}

// ReviewDocument godoc
// @Summary Approve or reject a document
// @Tags admin
// @Accept json
// @Produce json
// @Param uid path string true "Owner ID"
// @Param docId path string true "Document ID"
// @Param request body DocumentReviewRequest true "Decision"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/documents/{uid}/{docId}/status [post]
func (h *ComplianceHandler) ReviewDocument(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	docID, err := uuidParam(c, "docId")
	if err != nil {
		return err
	}
	var req DocumentReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	doc, err := h.documents.Review(c.Request().Context(), id.UID, c.Param("uid"), docID, req.Status, req.Notes)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, doc)
}

// BadgeTypesResponse lists badge definitions.
type BadgeTypesResponse struct {
	BadgeTypes     map[string]catalog.BadgeType `json:"badgeTypes"`
	TotalAvailable int                          `json:"totalAvailable"`
}

// BadgeTypes godoc
// @Summary Badge definitions
// @Tags badges
// @Produce json
// @Param skillCategory query string false "Category slug"
// @Success 200 {object} Response
// @Router /badges/types [get]
func (h *ComplianceHandler) BadgeTypes(c echo.Context) error {
	types := h.badges.Types(c.QueryParam("skillCategory"))
	return ok(c, http.StatusOK, BadgeTypesResponse{BadgeTypes: types, TotalAvailable: len(types)})
}

// RequestBadge godoc
// @Summary Apply for a badge
// @Tags badges
// @Accept json
// @Produce json
// @Param request body service.BadgeRequestInput true "Application"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /badges/request [post]
func (h *ComplianceHandler) RequestBadge(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.BadgeRequestInput
	if err := c.Bind(&in); err != nil {
		return apperrors.Invalid("Invalid request body")
	}
	req, err := h.badges.Request(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, req)
}

// MyBadges godoc
// @Summary Own badges and pending requests
// @Tags badges
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /badges/my-badges [get]
func (h *ComplianceHandler) MyBadges(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.badges.Mine(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// UserBadges godoc
// @Summary A user's public badges
// @Tags badges
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} Response
// @Router /badges/user/{userId} [get]
func (h *ComplianceHandler) UserBadges(c echo.Context) error {
	out, err := h.badges.PublicBadges(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// BadgeRequirements godoc
// @Summary Badges applying to a category
// @Tags badges
// @Produce json
// @Param category path string true "Category slug"
// @Param userId query string false "User to score"
// @Success 200 {object} Response
// @Router /badges/requirements/{category} [get]
func (h *ComplianceHandler) BadgeRequirements(c echo.Context) error {
	out, err := h.badges.Requirements(c.Request().Context(), c.Param("category"), c.QueryParam("userId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// ReviewBadge godoc
// @Summary Approve or reject a badge request
// @Tags badges
// @Accept json
// @Produce json
// @Param requestId path string true "Request ID"
// @Param request body service.BadgeReviewInput true "Decision"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /badges/admin/review/{requestId} [put]
func (h *ComplianceHandler) ReviewBadge(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	reqID, err := uuidParam(c, "requestId")
	if err != nil {
		return err
	}
	var in service.BadgeReviewInput
	if err := c.Bind(&in); err != nil {
		return apperrors.Invalid("Invalid request body")
	}
	out, err := h.badges.Review(c.Request().Context(), id.UID, reqID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// AcceptWaiver godoc
// @Summary Accept a liability waiver
// @Tags liability
// @Accept json
// @Produce json
// @Param request body service.WaiverInput true "Waiver"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /liability/waiver [post]
func (h *ComplianceHandler) AcceptWaiver(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in service.WaiverInput
	if err := bind(c, &in); err != nil {
		return err
	}
	in.IPAddress = c.RealIP()
	in.UserAgent = c.Request().UserAgent()
	w, err := h.liability.Accept(c.Request().Context(), id.UID, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, w)
}

// ListWaivers godoc
// @Summary Own waivers
// @Tags liability
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /liability/waivers [get]
func (h *ComplianceHandler) ListWaivers(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.liability.List(c.Request().Context(), id.UID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// CheckWaiver godoc
// @Summary Whether a skill needs a waiver
// @Tags liability
// @Produce json
// @Param skill query string true "Skill name"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Router /liability/check [get]
func (h *ComplianceHandler) CheckWaiver(c echo.Context) error {
	out, err := h.liability.Check(c.QueryParam("skill"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}
