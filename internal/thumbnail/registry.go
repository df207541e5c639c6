package thumbnail

import "sync"

// waiterRegistry maps cache keys to the ordered list of callers waiting
// for them, enabling request coalescing. Every registered waiter is
// resolved exactly once (with a raster or nil), never zero times and
// never more than once.
type waiterRegistry struct {
	mu      sync.Mutex
	waiters map[string][]chan<- []byte
}

func newWaiterRegistry() *waiterRegistry {
	return &waiterRegistry{waiters: make(map[string][]chan<- []byte)}
}

// register appends a waiter for key. The channel must have capacity for
// one result so that delivery never blocks the scheduler.
func (r *waiterRegistry) register(key string, ch chan<- []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waiters[key] = append(r.waiters[key], ch)
}

// notifyAll delivers result to every waiter registered for key, in
// registration order, and removes the entry. The snapshot-and-delete
// happens atomically under the lock, so a waiter registered after
// notifyAll begins belongs to the next resolution cycle.
func (r *waiterRegistry) notifyAll(key string, result []byte) {
	r.mu.Lock()
	pending := r.waiters[key]
	delete(r.waiters, key)
	r.mu.Unlock()

	for _, ch := range pending {
		ch <- result
	}
}

// pendingCount returns the number of waiters registered for key.
func (r *waiterRegistry) pendingCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters[key])
}
