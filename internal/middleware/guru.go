package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
)

const guruKey = "guru"

// GuruSite resolves the guru site from the request host, preferring
// X-Forwarded-Host, and rejects requests that did not arrive on a guru
// subdomain. When the route carries a :subdomain parameter it must name the
// same site.
func GuruSite() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			host := req.Header.Get("X-Forwarded-Host")
			if host == "" {
				host = req.Host
			}
			g, ok := GuruFromHost(host)
			if !ok {
				return apperrors.ErrGuruRequired.WithMeta("availableSubdomains", catalog.GuruSubdomains())
			}
			if sub := c.Param("subdomain"); sub != "" && sub != g.Subdomain {
				return apperrors.ErrSubdomainMismatch.WithMeta("host", g.Subdomain).WithMeta("path", sub)
			}
			c.Set(guruKey, g)
			return next(c)
		}
	}
}

// GuruFromHost maps a host such as cooking.yoohoo.guru or
// cooking.localhost:3000 to its guru site.
func GuruFromHost(host string) (catalog.Guru, bool) {
	if i := strings.IndexByte(host, ','); i >= 0 {
		host = host[:i]
	}
	labels := strings.Split(strings.ToLower(strings.TrimSpace(host)), ".")
	if len(labels) < 2 || catalog.IsReservedSubdomain(labels[0]) {
		return catalog.Guru{}, false
	}
	return catalog.LookupGuru(labels[0])
}

// GuruFrom returns the site resolved by GuruSite.
func GuruFrom(c echo.Context) (catalog.Guru, bool) {
	g, ok := c.Get(guruKey).(catalog.Guru)
	return g, ok
}

// SetGuru stores a resolved site on the context.
func SetGuru(c echo.Context, g catalog.Guru) {
	c.Set(guruKey, g)
}
