// Package batch fans a fixed URL list out over a bounded worker pool and
// collects one outcome per URL.
package batch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/afantini/pagereaper/internal/analyzer"
)

// Runner executes per-URL pipelines over a fixed-size worker pool
type Runner struct {
	analyzer *analyzer.Analyzer
	workers  int
}

// NewRunner creates a Runner with the given pool size
func NewRunner(a *analyzer.Analyzer, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		analyzer: a,
		workers:  workers,
	}
}

// Run scrapes every URL and returns one outcome per URL, in completion
// order. At most `workers` fetches run simultaneously. One URL's failure
// never aborts the others; cancellation turns unprocessed URLs into
// canceled outcomes so the caller still gets a full accounting.
func (r *Runner) Run(ctx context.Context, urls []string) []analyzer.Outcome {
	q := newQueue()
	for _, u := range urls {
		q.push(u)
	}
	// Fixed batch: nothing enqueues after this point, workers drain and exit
	q.stop()

	results := make(chan analyzer.Outcome, len(urls))

	var wg sync.WaitGroup
	logrus.Infof("Starting %d scrape workers for %d URLs", r.workers, q.size())

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go r.worker(ctx, i+1, q, results, &wg)
	}

	wg.Wait()
	close(results)

	outcomes := make([]analyzer.Outcome, 0, len(urls))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// worker processes queue entries until the queue drains
func (r *Runner) worker(ctx context.Context, id int, q *queue, results chan<- analyzer.Outcome, wg *sync.WaitGroup) {
	defer wg.Done()

	logrus.Debugf("Worker %d started", id)

	for {
		url, ok := q.pop()
		if !ok {
			logrus.Debugf("Worker %d: queue drained, exiting", id)
			return
		}

		if ctx.Err() != nil {
			results <- analyzer.Outcome{URL: url, Err: ctx.Err()}
			continue
		}

		logrus.Debugf("Worker %d: scraping %s", id, url)
		results <- r.analyzer.Analyze(ctx, url)
	}
}
