// Package playback defines the capability set the thumbnail service
// requires from a decodable video resource, and provides Clip, an
// FFmpeg/ffprobe-backed implementation of it used by the server.
//
// A Resource models a single shared playback surface: it has one
// transport position and one play/pause state, and only the capture
// scheduler is allowed to mutate either. Everything else must treat a
// Resource as read-only context. This is a documented contract, not
// mechanically enforced.
package playback
