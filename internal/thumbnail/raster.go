package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"swing-studio/internal/logging"
	"swing-studio/internal/playback"

	"github.com/disintegration/imaging"
)

// captureFrame samples the resource's current frame and encodes it as a
// fixed-width lossy thumbnail. All failure modes (zero-dimension
// source, draw error, encode error) are local to one request: the
// caller resolves waiters with nil and the scheduler advances.
func captureFrame(res playback.Resource, opts Options) ([]byte, error) {
	w, h := res.Dimensions()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("source has no drawable dimensions (%dx%d)", w, h)
	}

	frame, err := res.Frame()
	if err != nil {
		return nil, fmt.Errorf("frame draw failed: %w", err)
	}
	if frame == nil {
		return nil, fmt.Errorf("frame draw returned nil image")
	}

	return encodeThumbnail(frame, opts.Width, opts.JPEGQuality)
}

// encodeThumbnail scales img to the target width, preserving aspect
// ratio, and encodes it as JPEG. When libvips is available the resize
// and encode go through it; otherwise imaging + image/jpeg are used.
func encodeThumbnail(img image.Image, width, quality int) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("zero-dimension frame")
	}

	height := int(float64(width) * float64(bounds.Dy()) / float64(bounds.Dx()))
	if height < 1 {
		height = 1
	}

	if IsVipsAvailable() {
		data, err := encodeWithVips(img, width, height, quality)
		if err == nil {
			return data, nil
		}
		logging.Debug("vips encode failed, falling back to imaging: %v", err)
	}

	thumb := imaging.Resize(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
