package logging

import (
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
		ok       bool
	}{
		{
			name:     "Debug",
			input:    "debug",
			expected: LevelDebug,
			ok:       true,
		},
		{
			name:     "Info",
			input:    "info",
			expected: LevelInfo,
			ok:       true,
		},
		{
			name:     "Warn",
			input:    "warn",
			expected: LevelWarn,
			ok:       true,
		},
		{
			name:     "Warning alias",
			input:    "warning",
			expected: LevelWarn,
			ok:       true,
		},
		{
			name:     "Error",
			input:    "error",
			expected: LevelError,
			ok:       true,
		},
		{
			name:     "Case insensitive",
			input:    "DEBUG",
			expected: LevelDebug,
			ok:       true,
		},
		{
			name:     "Whitespace trimmed",
			input:    "  info ",
			expected: LevelInfo,
			ok:       true,
		},
		{
			name:     "Unknown falls back to info",
			input:    "verbose",
			expected: LevelInfo,
			ok:       false,
		},
		{
			name:     "Empty",
			input:    "",
			expected: LevelInfo,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, ok := ParseLevel(tt.input)
			if lvl != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, lvl, tt.expected)
			}
			if ok != tt.ok {
				t.Errorf("ParseLevel(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	orig := GetLevel()
	defer SetLevel(orig)

	SetLevel(LevelError)
	if got := GetLevel(); got != LevelError {
		t.Errorf("GetLevel() = %v, want %v", got, LevelError)
	}

	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true at error level")
	}

	SetLevel(LevelDebug)
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false at debug level")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", int(tt.level), got, tt.expected)
		}
	}
}
