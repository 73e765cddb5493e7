// Package analyzer runs the fetch, parse, extract, report pipeline for a
// single URL and folds the result into one per-URL outcome.
package analyzer

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/afantini/pagereaper/internal/fetcher"
	"github.com/afantini/pagereaper/internal/page"
	"github.com/afantini/pagereaper/internal/report"
)

// Outcome is the result of one full pipeline run for one URL. Err carries
// the failure of whichever stage broke, so an empty report caused by a
// failure is distinguishable from a page that genuinely has no content.
type Outcome struct {
	URL      string
	Report   *report.Report
	Err      error
	Duration time.Duration
}

// Failed reports whether any pipeline stage failed
func (o *Outcome) Failed() bool {
	return o.Err != nil
}

// Status returns a short label for logging and persistence
func (o *Outcome) Status() string {
	if o.Err != nil {
		return "failed"
	}
	return "ok"
}

// Analyzer orchestrates the sequential pipeline for one URL
type Analyzer struct {
	fetcher *fetcher.Fetcher
	writer  *report.Writer
	out     io.Writer
}

// New constructs an Analyzer writing console output to out
func New(f *fetcher.Fetcher, w *report.Writer, out io.Writer) *Analyzer {
	return &Analyzer{
		fetcher: f,
		writer:  w,
		out:     out,
	}
}

// Analyze runs fetch -> parse -> extract -> display -> save for url.
// A fetch failure stops this URL's work only; a parse failure still
// reports the (empty) extraction but marks the outcome failed.
func (a *Analyzer) Analyze(ctx context.Context, url string) Outcome {
	start := time.Now()

	body, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		logrus.Errorf("Fetch failed: %v", err)
		return Outcome{URL: url, Err: err, Duration: time.Since(start)}
	}

	doc, parseErr := page.Parse(url, body)

	rep := &report.Report{
		URL:    url,
		Titles: page.Titles(doc),
		Links:  page.Links(doc),
	}

	rep.Display(a.out)

	path, saveErr := a.writer.Save(rep)
	if saveErr != nil {
		logrus.Errorf("Save failed: %v", saveErr)
		return Outcome{URL: url, Report: rep, Err: saveErr, Duration: time.Since(start)}
	}

	if parseErr != nil {
		return Outcome{URL: url, Report: rep, Err: parseErr, Duration: time.Since(start)}
	}

	logrus.Infof("Scraped %s: %d titles, %d links -> %s",
		url, len(rep.Titles), len(rep.Links), path)

	return Outcome{URL: url, Report: rep, Duration: time.Since(start)}
}
