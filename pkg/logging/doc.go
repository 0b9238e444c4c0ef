// Package logging provides structured logging utilities for harbor-prepare.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every command logs the same way: JSON to stderr, module and version
// attributes on every record, and source locations at debug level.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("harbor-prepare", version, "info")
//	    slog.Info("rendered file", "template", "core/env", "destination", dst)
//	}
//
// The LOG_LEVEL environment variable is used when no explicit level is given:
//
//	LOG_LEVEL=debug harbor-prepare migrate --input harbor.yml --output harbor.yml.new
package logging
