package handlers

import (
	"context"
	"sync"
	"time"

	"swing-studio/internal/library"
	"swing-studio/internal/playback"
	"swing-studio/internal/thumbnail"
)

// Default bound on how long an HTTP caller waits for a capture before
// giving up. The capture job itself is never cancelled; its result
// still warms the cache for the next caller.
const defaultRequestTimeout = 10 * time.Second

// Catalog resolves video ids to playable resources.
type Catalog interface {
	List(ctx context.Context) ([]library.Video, error)
	Resolve(ctx context.Context, id int64) (playback.Resource, error)
}

// Handlers carries the HTTP handler dependencies.
type Handlers struct {
	catalog        Catalog
	thumbOpts      thumbnail.Options
	requestTimeout time.Duration

	// One thumbnail service per resource: the scheduler drains against
	// a single shared transport, so resources never share a queue.
	mu       sync.Mutex
	services map[string]*thumbnail.Service
}

// New creates the handler set.
func New(catalog Catalog, thumbOpts thumbnail.Options) *Handlers {
	return &Handlers{
		catalog:        catalog,
		thumbOpts:      thumbOpts,
		requestTimeout: defaultRequestTimeout,
		services:       make(map[string]*thumbnail.Service),
	}
}

// serviceFor returns the thumbnail service owning res, creating it on
// first use.
func (h *Handlers) serviceFor(res playback.Resource) *thumbnail.Service {
	key := res.SourceURL()

	h.mu.Lock()
	defer h.mu.Unlock()
	svc, ok := h.services[key]
	if !ok {
		svc = thumbnail.New(h.thumbOpts)
		h.services[key] = svc
	}
	return svc
}
