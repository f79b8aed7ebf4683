package client

import (
	"context"
	"sort"
	"sync"
)

// pendingTable tracks in-flight requests by id so individual calls, or all of
// them, can be aborted. Entries are removed when the response arrives,
// whatever the outcome.
type pendingTable struct {
	mu      sync.Mutex
	entries map[string]context.CancelFunc
}

func newPendingTable() *pendingTable {
	return &pendingTable{entries: make(map[string]context.CancelFunc)}
}

func (t *pendingTable) add(id string, cancel context.CancelFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = cancel
}

func (t *pendingTable) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id)
}

// cancel aborts the request with the given id. Cancelling an id that already
// completed is a no-op.
func (t *pendingTable) cancel(id string) {
	t.mu.Lock()
	cancelFn, ok := t.entries[id]
	delete(t.entries, id)
	t.mu.Unlock()
	if ok {
		cancelFn()
	}
}

// cancelAll aborts every pending request and leaves the table empty.
func (t *pendingTable) cancelAll() {
	t.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(t.entries))
	for id, cancelFn := range t.entries {
		cancels = append(cancels, cancelFn)
		delete(t.entries, id)
	}
	t.mu.Unlock()
	for _, cancelFn := range cancels {
		cancelFn()
	}
}

func (t *pendingTable) ids() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.entries))
	for id := range t.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (t *pendingTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
