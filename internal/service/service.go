// Package service holds the marketplace business rules. Handlers call
// services; services call repositories, the Stripe gateway, document
// storage and the mailer.
package service

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	apperrors "yoohoo/internal/errors"
)

// KeyInvalidator drops cached entries. *cache.Client satisfies it.
type KeyInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// notFound converts a missing row into the given domain error.
func notFound(err error, domain *apperrors.AppError) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}

func isNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

func containsFoldSubstring(list []string, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return false
	}
	for _, v := range list {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
