package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{"plain https", "https://example.com/page", "https://example.com/page", false},
		{"plain http", "http://example.com", "http://example.com", false},
		{"protocol relative", "//example.com/a", "https://example.com/a", false},
		{"uppercase host lowered", "https://EXAMPLE.com/Path", "https://example.com/Path", false},
		{"surrounding whitespace", "  https://example.com  ", "https://example.com", false},
		{"empty", "", "", true},
		{"relative path", "/just/a/path", "", true},
		{"bad scheme", "ftp://example.com", "", true},
		{"no host", "https://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPrepareURLs(t *testing.T) {
	valid, invalid := PrepareURLs([]string{
		"https://example.com",
		"https://example.org",
		"https://example.com", // duplicate
		"not a url",
		"https://EXAMPLE.com", // duplicate after normalization
	})

	assert.Equal(t, []string{"https://example.com", "https://example.org"}, valid)
	assert.Equal(t, []string{"not a url"}, invalid)
}
