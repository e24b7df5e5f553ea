package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// AdminSessionExpiry is how long an admin console session lasts.
	AdminSessionExpiry = 4 * time.Hour
	// AdminCookieName holds the admin session token.
	AdminCookieName = "yoohoo_admin"
	// AdminSubject is the subject of every admin session token.
	AdminSubject = "admin"
)

// AdminClaims are the claims of an admin session token.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// JWTService issues and validates admin session tokens.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// IssueAdminToken signs a new admin session token and returns its id.
func (s *JWTService) IssueAdminToken() (tokenID, token string, err error) {
	now := s.now()
	tokenID = uuid.New().String()
	claims := &AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   AdminSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(AdminSessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return tokenID, token, err
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject != AdminSubject || claims.ID == "" {
		return nil, errors.New("not an admin session")
	}
	return claims, nil
}

// Remaining returns how long the claims stay valid.
func (c *AdminClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
