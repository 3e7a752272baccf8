package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is a single-line format with JSON attributes (default).
	// Example: 2026-03-01 10:40:35  INFO stage finished → {"pipeline.stage":"billing"}
	FormatCompact Format = "compact"

	// FormatJSON is one JSON object per line, for log aggregation.
	FormatJSON Format = "json"
)

const (
	envLogFormat = "COSTLENS_LOG_FORMAT"
	envLogLevel  = "COSTLENS_LOG_LEVEL"
)

// ParseFormat parses a format string. Unknown values yield FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads COSTLENS_LOG_FORMAT, falling back to LOG_FORMAT.
func GetFormatFromEnv() Format {
	if format := os.Getenv(envLogFormat); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}

// ParseLogLevel parses DEBUG, INFO, WARN, WARNING or ERROR (case-insensitive).
// Unknown values return INFO and an error describing the rejected input.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// GetLogLevelFromEnv reads COSTLENS_LOG_LEVEL, falling back to LOG_LEVEL.
// Invalid values are reported on stderr and replaced by INFO.
func GetLogLevelFromEnv() slog.Level {
	raw := os.Getenv(envLogLevel)
	if raw == "" {
		raw = os.Getenv("LOG_LEVEL")
	}
	level, err := ParseLogLevel(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using INFO\n", err)
	}
	return level
}
