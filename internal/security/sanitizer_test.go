package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Hello", "Hello"},
		{"trims", "  Hello \n", "Hello"},
		{"strips tags", "<b>Nice</b> post", "Nice post"},
		{"drops scripts", "<script>alert(1)</script>", ""},
		{"null bytes", "a\x00b", "ab"},
		{"ampersand", "R&D", "R&D"},
		{"apostrophe", "don't", "don't"},
		{"quotes", `say "hi"`, `say "hi"`},
		{"less than", "a < b", "a < b"},
		{"heart", "Tom & Jerry <3", "Tom & Jerry <3"},
		{"tags next to entities", "<i>R&D</i> &amp; ops", "R&D & ops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.input))
		})
	}
}
