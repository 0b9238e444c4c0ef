// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Every failure surfaced by the renderer, the migrators and the file-system
// helpers carries one of four domain codes: ErrCodeParse, ErrCodeVersion,
// ErrCodeTemplate or ErrCodeIO.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeIO,
//	    "failed to write rendered file",
//	    err,
//	    map[string]any{
//	        "template":    "core/env",
//	        "destination": dst,
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeVersion) {
//	    // report the acceptable versions to the user
//	}
package errors
