package pull

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/typescaffold"
)

// constraintParser is implemented by extractors that normalize constraint types
type constraintParser interface {
	ParseConstraintType(constraintType string) string
}

// testConstraintParsing is a common test helper for constraint parsing
func testConstraintParsing(t *testing.T, parser constraintParser, unknownValue string) {
	t.Helper()

	tests := []struct {
		input    string
		expected string
	}{
		{"PRIMARY KEY", typescaffold.ConstraintPrimaryKey},
		{"foreign key", typescaffold.ConstraintForeignKey},
		{"UNIQUE", typescaffold.ConstraintUnique},
		{" CHECK ", typescaffold.ConstraintCheck},
		{unknownValue, unknownValue},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.ParseConstraintType(tt.input))
		})
	}
}
