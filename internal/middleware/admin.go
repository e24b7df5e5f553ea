package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"yoohoo/internal/auth"
	apperrors "yoohoo/internal/errors"
)

const adminClaimsKey = "admin_session"

// AdminSession requires the admin console cookie. Tokens are parsed by the
// JWT service and rejected once revoked by logout.
func AdminSession(jwtService *auth.JWTService, store auth.TokenStoreInterface) []echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + auth.AdminCookieName,
		ContextKey:  adminClaimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrAdminSessionRequired
		},
	})

	revoked := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := AdminClaimsFrom(c)
			if !ok {
				return apperrors.ErrAdminSessionRequired
			}
			if store != nil && store.IsRevoked(c.Request().Context(), claims.ID) {
				return apperrors.ErrAdminSessionRequired
			}
			return next(c)
		}
	}
	return []echo.MiddlewareFunc{parse, revoked}
}

// AdminClaimsFrom returns the admin session claims set by AdminSession.
func AdminClaimsFrom(c echo.Context) (*auth.AdminClaims, bool) {
	claims, ok := c.Get(adminClaimsKey).(*auth.AdminClaims)
	return claims, ok && claims != nil
}
