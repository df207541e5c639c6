package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"swing-studio/internal/logging"
	"swing-studio/internal/thumbnail"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	MediaDir    string
	DatabaseDir string
	Port        string
	MetricsPort string

	MetricsEnabled  bool
	VipsEnabled     bool
	LogHealthChecks bool

	ThumbnailWidth int
	JPEGQuality    int
	ReadyTimeout   time.Duration
	SeekTimeout    time.Duration
	SettleDelay    time.Duration

	// Derived paths
	DatabasePath string
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	defaults := thumbnail.DefaultOptions()

	config := &Config{
		MediaDir:        getEnv("MEDIA_DIR", "/media"),
		DatabaseDir:     getEnv("DATABASE_DIR", "/database"),
		Port:            getEnv("PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		VipsEnabled:     getEnvBool("VIPS_ENABLED", true),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", false),
		ThumbnailWidth:  getEnvInt("THUMBNAIL_WIDTH", defaults.Width),
		JPEGQuality:     getEnvInt("JPEG_QUALITY", defaults.JPEGQuality),
		ReadyTimeout:    getEnvDuration("READY_TIMEOUT", defaults.ReadyTimeout),
		SeekTimeout:     getEnvDuration("SEEK_TIMEOUT", defaults.SeekTimeout),
		SettleDelay:     getEnvDuration("SETTLE_DELAY", defaults.SettleDelay),
	}

	logging.Info("  MEDIA_DIR:       %s", config.MediaDir)
	logging.Info("  DATABASE_DIR:    %s", config.DatabaseDir)
	logging.Info("  PORT:            %s", config.Port)
	logging.Info("  METRICS_PORT:    %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED: %v", config.MetricsEnabled)
	logging.Info("  VIPS_ENABLED:    %v", config.VipsEnabled)
	logging.Info("  THUMBNAIL_WIDTH: %d", config.ThumbnailWidth)
	logging.Info("  JPEG_QUALITY:    %d", config.JPEGQuality)
	logging.Info("  READY_TIMEOUT:   %s", config.ReadyTimeout)
	logging.Info("  SEEK_TIMEOUT:    %s", config.SeekTimeout)
	logging.Info("  SETTLE_DELAY:    %s", config.SettleDelay)
	logging.Info("  LOG_LEVEL:       %s", logging.GetLevel())

	var err error
	config.MediaDir, err = filepath.Abs(config.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	config.DatabaseDir, err = filepath.Abs(config.DatabaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	config.DatabasePath = filepath.Join(config.DatabaseDir, "catalog.db")

	if err := ensureDirectory(config.MediaDir); err != nil {
		logging.Warn("  Media directory issue: %v", err)
	}

	if err := ensureDirectory(config.DatabaseDir); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}
	if err := testWriteAccess(config.DatabaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable: %w", err)
	}

	return config, nil
}

// ThumbnailOptions maps the configured bounds onto the capture
// scheduler's options.
func (c *Config) ThumbnailOptions() thumbnail.Options {
	opts := thumbnail.DefaultOptions()
	opts.Width = c.ThumbnailWidth
	opts.JPEGQuality = c.JPEGQuality
	opts.ReadyTimeout = c.ReadyTimeout
	opts.SeekTimeout = c.SeekTimeout
	opts.SettleDelay = c.SettleDelay
	return opts
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("  Invalid %s=%q, using default: %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logging.Warn("  Invalid %s=%q, using default: %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("  Invalid %s=%q, using default: %s", key, value, fallback)
		return fallback
	}
	return parsed
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}
	return nil
}

func testWriteAccess(dir string) error {
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// LogFatal logs a fatal error and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}
