package playback

import (
	"image"
	"time"
)

// Resource is the capability set a decodable video surface must provide
// for thumbnail capture. Implementations must be safe for concurrent use.
type Resource interface {
	// Position returns the current transport position.
	Position() time.Duration

	// SetPosition seeks the transport to the given position. Seek
	// completion is signalled through OnSeekComplete callbacks.
	SetPosition(d time.Duration)

	// IsPlaying reports whether the transport is advancing.
	IsPlaying() bool

	// Play resumes playback from the current position.
	Play()

	// Pause halts playback at the current position.
	Pause()

	// IsReady reports whether the resource can decode frames.
	IsReady() bool

	// OnSeekComplete registers a one-shot callback invoked after the
	// next seek settles. Some platforms never fire this for no-op
	// seeks, so callers must pair it with a timeout.
	OnSeekComplete(fn func())

	// Dimensions returns the source width and height in pixels.
	// Either may be zero when the source has not been probed.
	Dimensions() (width, height int)

	// Frame decodes and returns the frame at the current position.
	Frame() (image.Image, error)

	// SourceURL returns the source locator, used for cache-key
	// derivation. It must be stable for the life of the resource.
	SourceURL() string
}
