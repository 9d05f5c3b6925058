package scaffolding

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestDefaultFieldNamer(t *testing.T) {
	namer := DefaultFieldNamer()

	tests := []struct {
		column   string
		expected string
	}{
		{"id", "ID"},
		{"user_id", "UserID"},
		{"USER_NAME", "UserName"},
		{"createdAt", "CreatedAt"},
		{"api-key", "APIKey"},
		{"order items", "OrderItems"},
		{"homepage_url", "HomepageURL"},
		{"1_column", "Field1Column"},
		{"__", "Field"},
		{"", "Field"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.expected, namer.FieldName(tt.column))
		})
	}
}
