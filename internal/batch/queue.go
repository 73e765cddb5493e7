package batch

import (
	"sync"
)

// queue is a thread-safe job queue with URL deduplication
type queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []string
	seen    map[string]bool
	stopped bool
}

// newQueue creates a new job queue
func newQueue() *queue {
	q := &queue{
		items: make([]string, 0),
		seen:  make(map[string]bool),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push adds a URL to the queue if not already enqueued.
// Returns true if added, false if duplicate or stopped.
func (q *queue) push(url string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Don't accept new entries if stopped
	if q.stopped {
		return false
	}

	if q.seen[url] {
		return false
	}

	q.seen[url] = true
	q.items = append(q.items, url)

	// Signal waiting workers
	q.cond.Signal()

	return true
}

// pop removes and returns the first URL from the queue.
// Blocks if the queue is empty and not stopped.
// Returns (url, true) if successful, ("", false) if stopped and empty.
func (q *queue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if len(q.items) > 0 {
			url := q.items[0]
			q.items = q.items[1:]
			return url, true
		}

		// Queue is empty - check if stopped
		if q.stopped {
			return "", false
		}

		// Queue is empty but not stopped - wait for new items
		q.cond.Wait()
	}
}

// stop signals the queue to stop accepting new entries.
// Workers blocked on pop() drain remaining items, then receive false.
func (q *queue) stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopped = true
	q.cond.Broadcast()
}

// size returns the current number of queued items
func (q *queue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
