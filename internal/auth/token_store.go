package auth

import (
	"context"
	"time"

	"yoohoo/internal/cache"
)

const revokedAdminKeyPrefix = "revoked:admin_session:"

// TokenStoreInterface defines admin session revocation.
type TokenStoreInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore keeps revoked admin session ids in Redis until they expire.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks a session id as logged out.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedAdminKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked reports whether the session was logged out. Without redis nothing is revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	data, _ := s.cache.Get(ctx, revokedAdminKeyPrefix+tokenID)
	return data != nil
}
