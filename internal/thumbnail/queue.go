package thumbnail

import "time"

// captureRequest describes one desired still-frame extraction. A
// request exists only until it is drained (success or failure) and is
// never re-enqueued automatically.
type captureRequest struct {
	key   string
	at    time.Duration
	frame int
}

// captureQueue is a FIFO of distinct pending capture jobs. At most one
// request per cache key is queued at a time; duplicates are coalesced
// onto the queued job's waiters. Not safe for concurrent use: the
// owning Service guards it with its own mutex.
type captureQueue struct {
	items  []captureRequest
	queued map[string]bool
}

func newCaptureQueue() *captureQueue {
	return &captureQueue{queued: make(map[string]bool)}
}

// push appends req unless a request with the same key is already
// queued. It reports whether the request was added.
func (q *captureQueue) push(req captureRequest) bool {
	if q.queued[req.key] {
		return false
	}
	q.items = append(q.items, req)
	q.queued[req.key] = true
	return true
}

// pop removes and returns the head request.
func (q *captureQueue) pop() (captureRequest, bool) {
	if len(q.items) == 0 {
		return captureRequest{}, false
	}
	req := q.items[0]
	q.items = q.items[1:]
	delete(q.queued, req.key)
	return req, true
}

func (q *captureQueue) len() int {
	return len(q.items)
}
