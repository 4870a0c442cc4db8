package authclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := map[string]bool{
		"ada@example.com":       true,
		"a.b+c_d%e-f@sub.ex.io": true,
		"ADA@EXAMPLE.COM":       true,
		"not-an-email":          false,
		"ada@example":           false,
		"ada@example.c":         false,
		"@example.com":          false,
		"ada@@example.com":      false,
		" ada@example.com":      false,
		"ada@example.com\nx":    false,
		"":                      false,
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidEmail(in), "%q", in)
	}
}

func TestValidPassword(t *testing.T) {
	tests := map[string]bool{
		"letmein1":  true,
		"12345678a": true,
		"letmein":   false,
		"letmeinn":  false,
		"12345678":  false,
		"pass1":     false,
		"":          false,
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidPassword(in), "%q", in)
	}
}
