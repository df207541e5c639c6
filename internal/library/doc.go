// Package library indexes the media directory into a SQLite-backed
// catalog of videos and resolves catalog entries to playable clips for
// the HTTP surface.
//
// The catalog stores probed metadata (duration, frame rate,
// dimensions) so clips can be constructed without re-probing files on
// every request. Thumbnails themselves are never persisted here; the
// thumbnail cache is in-memory only.
package library
