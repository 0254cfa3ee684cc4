package apperrors

import "errors"

// Session errors
var (
	ErrConnection   = errors.New("connection failed")
	ErrNotConnected = errors.New("not connected")
	ErrPermission   = errors.New("permission denied")
)

// Catalog errors
var (
	ErrTableNotFound     = errors.New("table not found")
	ErrColumnNotFound    = errors.New("column not found")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidSampleSize = errors.New("invalid sample size")
)

// Configuration errors
var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrUnsupportedDriver = errors.New("unsupported driver")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Export errors
var ErrIO = errors.New("i/o error")
