package batch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afantini/pagereaper/internal/analyzer"
	"github.com/afantini/pagereaper/internal/fetcher"
	"github.com/afantini/pagereaper/internal/report"
)

func newRunner(t *testing.T, workers int) (*Runner, string) {
	t.Helper()

	dir := t.TempDir()
	w, err := report.NewWriter(dir)
	require.NoError(t, err)

	f := fetcher.New(fetcher.Config{UserAgent: "test-agent/1.0", Timeout: 2 * time.Second})
	a := analyzer.New(f, w, &bytes.Buffer{})
	return NewRunner(a, workers), dir
}

func pageServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunAllSucceed(t *testing.T) {
	s1 := pageServer(t, "<h1>One</h1>")
	s2 := pageServer(t, "<h1>Two</h1>")

	runner, dir := newRunner(t, 2)
	outcomes := runner.Run(context.Background(), []string{s1.URL, s2.URL})

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.False(t, o.Failed(), "URL %s failed: %v", o.URL, o.Err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunOneFailureDoesNotAbortOthers(t *testing.T) {
	good1 := pageServer(t, `<h1>Good</h1><a href="https://x">x</a>`)
	good2 := pageServer(t, "<h2>Also good</h2>")
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)

	runner, dir := newRunner(t, 3)
	outcomes := runner.Run(context.Background(), []string{good1.URL, bad.URL, good2.URL})

	require.Len(t, outcomes, 3)

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
			assert.Equal(t, bad.URL, o.URL)
		} else {
			assert.NotNil(t, o.Report)
		}
	}
	assert.Equal(t, 1, failed)

	// The two healthy URLs were saved despite the failure
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunBoundsConcurrency(t *testing.T) {
	const workers = 2

	var inFlight, peak int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		current := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if current <= old || atomic.CompareAndSwapInt64(&peak, old, current) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		w.Write([]byte("<h1>ok</h1>"))
	}))
	t.Cleanup(server.Close)

	urls := []string{
		server.URL + "/a",
		server.URL + "/b",
		server.URL + "/c",
		server.URL + "/d",
		server.URL + "/e",
		server.URL + "/f",
	}

	runner, _ := newRunner(t, workers)
	outcomes := runner.Run(context.Background(), urls)

	require.Len(t, outcomes, len(urls))
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(workers))
}

func TestRunDeduplicatesQueue(t *testing.T) {
	server := pageServer(t, "<h1>Once</h1>")

	runner, _ := newRunner(t, 2)
	outcomes := runner.Run(context.Background(), []string{server.URL, server.URL, server.URL})

	// The queue drops duplicates, so only one outcome comes back
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Failed())
}

func TestRunCanceledContext(t *testing.T) {
	server := pageServer(t, "<h1>never</h1>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner, dir := newRunner(t, 2)
	outcomes := runner.Run(ctx, []string{server.URL, server.URL + "/b"})

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.True(t, o.Failed())
		assert.ErrorIs(t, o.Err, context.Canceled)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunEmptyList(t *testing.T) {
	runner, _ := newRunner(t, 2)
	outcomes := runner.Run(context.Background(), nil)
	assert.Empty(t, outcomes)
}
