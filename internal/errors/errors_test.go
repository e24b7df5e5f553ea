package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{name: "not found sentinel", err: ErrUserNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found", wantMsg: "User not found"},
		{name: "wrapped sentinel", err: fmt.Errorf("load: %w", ErrExchangeNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found", wantMsg: "Exchange not found"},
		{name: "forbidden", err: ErrAdminRequired, wantStatus: http.StatusForbidden, wantCode: "forbidden", wantMsg: "Admin access required"},
		{name: "validation", err: Invalid("tier is required"), wantStatus: http.StatusBadRequest, wantCode: "invalid", wantMsg: "tier is required"},
		{name: "unavailable", err: ErrStripeNotConfigured, wantStatus: http.StatusServiceUnavailable, wantCode: "unavailable"},
		{name: "gorm not found", err: gorm.ErrRecordNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal", wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, he.StatusCode)
			assert.Equal(t, tt.wantCode, he.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, he.Message)
			}
		})
	}
}

func TestWithMetaDoesNotMutateSentinel(t *testing.T) {
	err := ErrInvalidDocuments.WithMeta("documentIds", []string{"a"})

	assert.Nil(t, ErrInvalidDocuments.Meta)
	assert.Equal(t, []string{"a"}, err.Meta["documentIds"])
	assert.True(t, IsCode(err, CodeInvalid))
}
