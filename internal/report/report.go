// Package report renders extraction results to the console and to per-URL
// output files.
package report

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Report pairs the extracted titles and links of one URL
type Report struct {
	URL    string
	Titles []string
	Links  []string
}

// Display writes the human-readable representation to w
func (r *Report) Display(w io.Writer) {
	fmt.Fprint(w, r.render())
}

// render produces the textual representation shared by Display and Save:
// a titles section, a blank line, then a links section, one entry per line.
// The line format cannot represent a lone empty link: a links sequence whose
// only entry is "" (a single href-less anchor) renders identically to an
// empty links section.
func (r *Report) render() string {
	var b strings.Builder

	b.WriteString("Titles:\n")
	for _, title := range r.Titles {
		b.WriteString(title)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString("Links:\n")
	for _, link := range r.Links {
		b.WriteString(link)
		b.WriteString("\n")
	}

	return b.String()
}

// Writer persists reports, one file per URL, inside a fixed output directory
type Writer struct {
	outputDir string
}

// NewWriter creates the output directory if needed and returns a Writer
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// Save writes the report to its per-URL file, truncating any previous
// content. The filename is derived deterministically from the URL, so
// concurrent scrapes of different URLs never share a target and repeated
// saves of the same input produce byte-identical files.
// Returns the path written.
func (w *Writer) Save(r *Report) (string, error) {
	path := filepath.Join(w.outputDir, fileName(r.URL))

	if err := os.WriteFile(path, []byte(r.render()), 0644); err != nil {
		return "", fmt.Errorf("failed to write report for %s: %w", r.URL, err)
	}

	return path, nil
}

// fileName derives the output filename for a URL: a readable sanitized stem
// plus a short digest of the full URL. Sanitizing alone is not injective
// (http://example.com, https://example.com and https://example.com/ all
// share a stem), so the digest keeps distinct URLs on distinct paths.
func fileName(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%s-%x.txt", sanitizeStem(url), sum[:4])
}

// sanitizeStem creates a safe filename stem from a URL
func sanitizeStem(url string) string {
	// Remove scheme and common prefixes
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "www.")
	url = strings.TrimSuffix(url, "/")

	// Replace unsafe characters
	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	for _, char := range unsafe {
		url = strings.ReplaceAll(url, char, "_")
	}

	if url == "" {
		url = "index"
	}

	return url
}
