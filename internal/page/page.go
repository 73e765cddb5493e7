// Package page turns raw HTML into a traversable document and extracts
// heading text and anchor targets from it.
package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// ParseError reports an HTML document that could not be parsed
type ParseError struct {
	URL   string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed for %s: %v", e.URL, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse builds a document from raw HTML text. The returned document is
// always usable: when parsing fails it is empty, the error is a *ParseError
// and the failure is logged, so extraction downstream runs safely and
// finds nothing.
func Parse(url, html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logrus.Errorf("HTML parse failed for %s: %v", url, err)
		empty, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
		return empty, &ParseError{URL: url, Cause: err}
	}
	return doc, nil
}

// Titles returns the text of every h1 and h2 element in document order.
// Non-heading elements contribute nothing.
func Titles(doc *goquery.Document) []string {
	titles := []string{}
	doc.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(s.Text()))
	})
	return titles
}

// Links returns the href target of every a element in document order.
// An anchor without an href attribute contributes an empty string;
// non-anchor elements contribute nothing.
func Links(doc *goquery.Document) []string {
	links := []string{}
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, href)
	})
	return links
}
