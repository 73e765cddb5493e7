package batch

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize validates a raw URL and returns its canonical form.
// Protocol-relative URLs get an https scheme; relative URLs are rejected.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Handle protocol-relative URLs
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme in %q", raw)
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}

	parsed.Host = strings.ToLower(parsed.Host)
	return parsed.String(), nil
}

// PrepareURLs normalizes and deduplicates a batch URL list, preserving
// order. Invalid entries are returned separately so the caller can report
// them without aborting the batch.
func PrepareURLs(raw []string) (valid []string, invalid []string) {
	seen := make(map[string]bool)

	for _, r := range raw {
		normalized, err := Normalize(r)
		if err != nil {
			invalid = append(invalid, r)
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		valid = append(valid, normalized)
	}

	return valid, invalid
}
