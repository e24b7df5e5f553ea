package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"yoohoo/internal/auth"
	apperrors "yoohoo/internal/errors"
)

// AdminSession is a freshly issued admin console session.
type AdminSession struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService handles admin console login and logout.
type AuthService interface {
	Login(ctx context.Context, key string) (*AdminSession, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	adminKey   string
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
	log        *zap.Logger
}

// NewAuthService creates a new admin authentication service.
func NewAuthService(adminKey string, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		adminKey:   adminKey,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
		log:        log,
	}
}

// Login checks the admin key and issues a session token.
func (s *authService) Login(ctx context.Context, key string) (*AdminSession, error) {
	if s.adminKey == "" {
		return nil, apperrors.ErrAdminKeyMissing
	}
	if !auth.CheckAdminKey(s.adminKey, key) {
		s.log.Warn("admin login rejected")
		return nil, apperrors.ErrInvalidAdminKey
	}

	tokenID, token, err := s.jwtService.IssueAdminToken()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Failed to create admin session")
	}
	s.log.Info("admin session issued", zap.String("token_id", tokenID))
	return &AdminSession{Token: token, ExpiresAt: s.now().Add(auth.AdminSessionExpiry)}, nil
}

// Logout revokes the session until it would have expired. Invalid tokens
// have nothing to revoke.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.tokenStore.Revoke(ctx, claims.ID, claims.Remaining(s.now()))
}
