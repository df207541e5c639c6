package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"swing-studio/internal/logging"
	"swing-studio/internal/playback"
)

// Default timeout for catalog queries
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when a video id is not in the catalog.
var ErrNotFound = errors.New("video not found")

// Video is one catalog entry.
type Video struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Duration  float64   `json:"duration"`
	FPS       float64   `json:"fps"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	IndexedAt time.Time `json:"indexedAt"`
}

// Library is the SQLite-backed video catalog.
type Library struct {
	db       *sql.DB
	mediaDir string
	probe    playback.ProbeFunc

	mu    sync.Mutex
	clips map[int64]*playback.Clip
}

// New opens (or creates) the catalog database at dbPath. The parent
// directory must already exist and be writable; use startup.LoadConfig
// for directory validation. A nil probe defaults to playback.Probe.
func New(ctx context.Context, dbPath, mediaDir string, probe playback.ProbeFunc) (*Library, error) {
	if probe == nil {
		probe = playback.Probe
	}

	// WAL with a busy timeout prevents "database is locked" errors
	// when scan workers upsert concurrently.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	l := &Library{
		db:       db,
		mediaDir: mediaDir,
		probe:    probe,
		clips:    make(map[int64]*playback.Clip),
	}

	if err := l.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog after init failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	logging.Info("Video catalog initialized at %s", dbPath)
	return l, nil
}

func (l *Library) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		duration_secs REAL NOT NULL,
		fps REAL NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		indexed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_videos_name ON videos(name);
	`

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := l.db.ExecContext(initCtx, schema)
	return err
}

// Close releases the catalog database.
func (l *Library) Close() error {
	return l.db.Close()
}

// upsert inserts or refreshes one catalog entry by path.
func (l *Library) upsert(ctx context.Context, path string, info playback.Info) error {
	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := l.db.ExecContext(queryCtx, `
		INSERT INTO videos (name, path, duration_secs, fps, width, height, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			duration_secs = excluded.duration_secs,
			fps = excluded.fps,
			width = excluded.width,
			height = excluded.height,
			indexed_at = CURRENT_TIMESTAMP`,
		filepath.Base(path), path, info.Duration.Seconds(), info.FPS, info.Width, info.Height)
	return err
}

// List returns all catalog entries ordered by name.
func (l *Library) List(ctx context.Context) ([]Video, error) {
	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := l.db.QueryContext(queryCtx, `
		SELECT id, name, path, duration_secs, fps, width, height, indexed_at
		FROM videos ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog list failed: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.Name, &v.Path, &v.Duration, &v.FPS, &v.Width, &v.Height, &v.IndexedAt); err != nil {
			return nil, fmt.Errorf("catalog row scan failed: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Get returns one catalog entry by id.
func (l *Library) Get(ctx context.Context, id int64) (Video, error) {
	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v Video
	err := l.db.QueryRowContext(queryCtx, `
		SELECT id, name, path, duration_secs, fps, width, height, indexed_at
		FROM videos WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Path, &v.Duration, &v.FPS, &v.Width, &v.Height, &v.IndexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Video{}, ErrNotFound
	}
	if err != nil {
		return Video{}, fmt.Errorf("catalog lookup failed: %w", err)
	}
	return v, nil
}

// Resolve returns the playable clip for a catalog entry, constructing
// it from stored metadata on first use. Clips are cached per id so all
// callers share one transport — the shared mutable resource the
// thumbnail scheduler drains against.
func (l *Library) Resolve(ctx context.Context, id int64) (*playback.Clip, error) {
	l.mu.Lock()
	if clip, ok := l.clips[id]; ok {
		l.mu.Unlock()
		return clip, nil
	}
	l.mu.Unlock()

	v, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	clip := playback.NewFromInfo(v.Path, playback.Info{
		Duration: time.Duration(v.Duration * float64(time.Second)),
		FPS:      v.FPS,
		Width:    v.Width,
		Height:   v.Height,
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	// Another caller may have resolved the same id meanwhile; keep the
	// first clip so everyone shares one transport.
	if existing, ok := l.clips[id]; ok {
		return existing, nil
	}
	l.clips[id] = clip
	return clip, nil
}
