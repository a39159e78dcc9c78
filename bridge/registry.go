package bridge

import (
	"sync"

	osabridge "github.com/osakit/osabridge"
	"github.com/osakit/osabridge/errors"
)

// Registry tracks how many live proxies are currently bound to each
// remote handle. The count for a handle equals the number of local
// aliases, not the number of proxies ever created. Entries never sit
// at zero: the entry is removed on the decrement that reaches it.
type Registry struct {
	counts map[osabridge.Handle]int
	mu     sync.Mutex
}

// NewRegistry creates an empty reference-count table.
func NewRegistry() *Registry {
	return &Registry{
		counts: make(map[osabridge.Handle]int),
	}
}

// Increment records one more live alias for the handle, creating the
// entry at 1 if absent. It has no failure mode.
func (r *Registry) Increment(h osabridge.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[h]++
}

// Decrement records one fewer live alias for the handle. It returns
// true exactly when the count reached zero, in which case the entry
// has been removed and the caller must send the release message.
//
// Decrementing a handle with no entry is a lifecycle bug, reported as
// an invariant-violation error with the table left untouched.
func (r *Registry) Decrement(h osabridge.Handle) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, ok := r.counts[h]
	if !ok {
		return false, errors.InvariantViolation(int64(h), "decrement of untracked handle")
	}

	count--
	if count == 0 {
		delete(r.counts, h)
		return true, nil
	}
	r.counts[h] = count
	return false, nil
}

// Count returns the current alias count for the handle, 0 if untracked.
func (r *Registry) Count(h osabridge.Handle) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[h]
}

// Len returns the number of tracked handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counts)
}

// Handles returns a snapshot of all tracked handles, for diagnostics.
// Order is unspecified.
func (r *Registry) Handles() []osabridge.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]osabridge.Handle, 0, len(r.counts))
	for h := range r.counts {
		out = append(out, h)
	}
	return out
}
