// Package fetcher retrieves page bodies over HTTP using a Colly collector.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

// Error reports a failed fetch for a single URL. It is returned to the
// caller so one page's failure never takes down the rest of a batch.
type Error struct {
	URL   string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.URL, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config controls collector behavior
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher performs single-page HTTP GETs
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	// Clones share the base collector's visited-URL store, so revisits must
	// be allowed or a second Fetch of the same URL errors instead of issuing
	// its GET.
	c := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.IgnoreRobotsTxt = true

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch executes exactly one HTTP GET against url, attaching the configured
// User-Agent header, and returns the response body as text. Any transport or
// protocol failure is returned as *Error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	var (
		body     string
		fetchErr error
	)

	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})

	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", &Error{URL: url, Cause: ctx.Err()}
	case err := <-done:
		if err != nil {
			return "", &Error{URL: url, Cause: err}
		}
		if fetchErr != nil {
			return "", &Error{URL: url, Cause: fetchErr}
		}
	}

	logrus.Debugf("Fetched %s (%d bytes)", url, len(body))
	return body, nil
}
