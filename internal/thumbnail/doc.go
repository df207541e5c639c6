// Package thumbnail implements the frame-thumbnail extraction and cache
// service.
//
// Many UI callers may concurrently request a small still-image preview
// for an arbitrary timestamp of a video resource, but only one
// exclusive scrub of the underlying resource can happen at a time
// without disrupting visible playback. The service therefore coalesces
// duplicate requests per cache key, queues distinct capture jobs in
// FIFO order, and drains them with a single-flight scheduler that
// pauses the resource, seeks, captures, and restores the transport to
// its pre-drain state.
//
// Thumbnails are cached write-once and unbounded for the lifetime of a
// Service. Capture failures resolve waiters with nil and are never
// cached, so a later request for the same key gets a fresh attempt.
package thumbnail
