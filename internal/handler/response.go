package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"yoohoo/internal/auth"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/middleware"
)

// Response is the success envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// PageMeta describes a paginated listing.
type PageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func okWithMeta(c echo.Context, data, meta interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// bind decodes and validates the request body.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperrors.Invalid("Invalid request body")
	}
	return c.Validate(dst)
}

func caller(c echo.Context) (auth.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, apperrors.ErrUnauthorized
	}
	return id, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Invalid("Invalid " + name)
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when it is absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
