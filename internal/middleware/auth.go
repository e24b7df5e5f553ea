// Package middleware holds the echo middleware shared by the API routes.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"yoohoo/internal/auth"
	apperrors "yoohoo/internal/errors"
)

const identityKey = "identity"

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// FirebaseAuth requires a valid Firebase ID token and stores the caller identity.
func FirebaseAuth(verifier auth.TokenVerifier, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" || verifier == nil {
				return apperrors.ErrUnauthorized
			}
			id, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				log.Debug("id token rejected", zap.Error(err))
				return apperrors.Wrap(err, apperrors.CodeUnauthorized, "Invalid or expired token")
			}
			c.Set(identityKey, *id)
			return next(c)
		}
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(verifier auth.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" && verifier != nil {
				if id, err := verifier.Verify(c.Request().Context(), token); err == nil {
					c.Set(identityKey, *id)
				}
			}
			return next(c)
		}
	}
}

// RequireAdminRole rejects callers without the admin role claim. It must run
// after FirebaseAuth.
func RequireAdminRole(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return apperrors.ErrUnauthorized
		}
		if !id.IsAdmin() {
			return apperrors.ErrAdminRequired
		}
		return next(c)
	}
}

// IdentityFrom returns the verified caller, if any.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok && id.UID != ""
}

// SetIdentity stores an identity on the context.
func SetIdentity(c echo.Context, id auth.Identity) {
	c.Set(identityKey, id)
}
