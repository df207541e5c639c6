package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"swing-studio/internal/playback"
)

func fakeProbe(ctx context.Context, path string) (playback.Info, error) {
	return playback.Info{
		Duration: 12 * time.Second,
		FPS:      30,
		Width:    1920,
		Height:   1080,
	}, nil
}

func newTestLibrary(t *testing.T, mediaDir string) *Library {
	t.Helper()

	lib, err := New(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), mediaDir, fakeProbe)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() {
		if err := lib.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return lib
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIsVideo(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/media/swing.mp4", true},
		{"/media/lesson.MOV", true},
		{"/media/clip.webm", true},
		{"/media/notes.txt", false},
		{"/media/poster.jpg", false},
		{"/media/noext", false},
	}

	for _, tt := range tests {
		if got := IsVideo(tt.path); got != tt.expected {
			t.Errorf("IsVideo(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func TestScanIndexesVideos(t *testing.T) {
	mediaDir := t.TempDir()
	touch(t, filepath.Join(mediaDir, "swing.mp4"))
	touch(t, filepath.Join(mediaDir, "sessions", "backhand.mov"))
	touch(t, filepath.Join(mediaDir, "notes.txt"))

	lib := newTestLibrary(t, mediaDir)

	indexed, err := Scan(context.Background(), lib)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if indexed != 2 {
		t.Errorf("Scan() indexed %d videos, want 2", indexed)
	}

	videos, err := lib.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("List() returned %d videos, want 2", len(videos))
	}

	// Ordered by name
	if videos[0].Name != "backhand.mov" || videos[1].Name != "swing.mp4" {
		t.Errorf("List() order = %q, %q", videos[0].Name, videos[1].Name)
	}
	if videos[0].FPS != 30 || videos[0].Duration != 12 {
		t.Errorf("probed metadata not stored: fps=%v duration=%v", videos[0].FPS, videos[0].Duration)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	mediaDir := t.TempDir()
	touch(t, filepath.Join(mediaDir, "swing.mp4"))

	lib := newTestLibrary(t, mediaDir)

	for i := 0; i < 2; i++ {
		if _, err := Scan(context.Background(), lib); err != nil {
			t.Fatalf("Scan() pass %d error: %v", i, err)
		}
	}

	videos, err := lib.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 {
		t.Errorf("rescan duplicated entries: %d videos, want 1", len(videos))
	}
}

func TestScanSkipsProbeFailures(t *testing.T) {
	mediaDir := t.TempDir()
	touch(t, filepath.Join(mediaDir, "good.mp4"))
	touch(t, filepath.Join(mediaDir, "bad.mp4"))

	failingProbe := func(ctx context.Context, path string) (playback.Info, error) {
		if filepath.Base(path) == "bad.mp4" {
			return playback.Info{}, errors.New("corrupt container")
		}
		return fakeProbe(ctx, path)
	}

	lib, err := New(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), mediaDir, failingProbe)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	indexed, err := Scan(context.Background(), lib)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if indexed != 1 {
		t.Errorf("Scan() indexed %d videos, want 1 (probe failure skipped)", indexed)
	}
}

func TestGetAndResolve(t *testing.T) {
	mediaDir := t.TempDir()
	touch(t, filepath.Join(mediaDir, "swing.mp4"))

	lib := newTestLibrary(t, mediaDir)
	if _, err := Scan(context.Background(), lib); err != nil {
		t.Fatal(err)
	}

	videos, err := lib.List(context.Background())
	if err != nil || len(videos) != 1 {
		t.Fatalf("List() = %v, %v", videos, err)
	}
	id := videos[0].ID

	v, err := lib.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get(%d) error: %v", id, err)
	}
	if v.Name != "swing.mp4" {
		t.Errorf("Get(%d).Name = %q", id, v.Name)
	}

	clip, err := lib.Resolve(context.Background(), id)
	if err != nil {
		t.Fatalf("Resolve(%d) error: %v", id, err)
	}
	if clip.SourceURL() != v.Path {
		t.Errorf("clip source = %q, want %q", clip.SourceURL(), v.Path)
	}
	if w, h := clip.Dimensions(); w != 1920 || h != 1080 {
		t.Errorf("clip dimensions = %dx%d", w, h)
	}

	// Resolving twice must return the same shared transport
	again, err := lib.Resolve(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if again != clip {
		t.Error("Resolve returned a second clip instance for the same id")
	}
}

func TestGetNotFound(t *testing.T) {
	lib := newTestLibrary(t, t.TempDir())

	if _, err := lib.Get(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}
	if _, err := lib.Resolve(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(999) error = %v, want ErrNotFound", err)
	}
}
