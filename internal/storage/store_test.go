package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"plain", "insurance.pdf", "u1/d1/insurance.pdf"},
		{"unix path", "../../etc/passwd", "u1/d1/passwd"},
		{"windows path", `C:\docs\license.png`, "u1/d1/license.png"},
		{"empty", "", "u1/d1/document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey("u1", "d1", tt.file))
		})
	}
}
