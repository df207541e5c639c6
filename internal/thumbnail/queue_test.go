package thumbnail

import (
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := newCaptureQueue()

	reqs := []captureRequest{
		{key: "v:1", at: 1 * time.Second, frame: 30},
		{key: "v:2", at: 2 * time.Second, frame: 60},
		{key: "v:3", at: 3 * time.Second, frame: 90},
	}
	for _, req := range reqs {
		if !q.push(req) {
			t.Fatalf("push(%q) rejected a distinct key", req.key)
		}
	}

	if q.len() != 3 {
		t.Fatalf("len() = %d, want 3", q.len())
	}

	for i, want := range reqs {
		got, ok := q.pop()
		if !ok {
			t.Fatalf("pop %d failed", i)
		}
		if got != want {
			t.Errorf("pop %d = %+v, want %+v", i, got, want)
		}
	}

	if _, ok := q.pop(); ok {
		t.Error("pop on empty queue succeeded")
	}
}

func TestQueueDeduplicatesByKey(t *testing.T) {
	q := newCaptureQueue()

	if !q.push(captureRequest{key: "v:1", at: time.Second, frame: 30}) {
		t.Fatal("first push rejected")
	}
	if q.push(captureRequest{key: "v:1", at: 5 * time.Second, frame: 30}) {
		t.Fatal("duplicate key accepted")
	}
	if q.len() != 1 {
		t.Fatalf("len() = %d, want 1", q.len())
	}

	// Once drained, the key may queue again (no automatic re-enqueue,
	// but a fresh request is a fresh job).
	q.pop()
	if !q.push(captureRequest{key: "v:1", at: time.Second, frame: 30}) {
		t.Error("push after pop rejected")
	}
}
