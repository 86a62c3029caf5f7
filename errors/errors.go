// Package errors defines all exported error sentinels for the probemap library.
//
// This is the single source of truth for error values. Both the top-level
// probemap package and any subpackages import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Table errors
var (
	ErrInvalidCapacity = errors.New("probemap: initial capacity must be positive")
	ErrNilKey          = errors.New("probemap: key must not be nil")
	ErrNilValue        = errors.New("probemap: value must not be nil")
	ErrNotFound        = errors.New("probemap: key not found")
)

// Snapshot errors
var (
	ErrInvalidMagic        = errors.New("probemap: invalid snapshot magic number")
	ErrInvalidVersion      = errors.New("probemap: unsupported snapshot version")
	ErrTruncatedSnapshot   = errors.New("probemap: snapshot file is truncated")
	ErrChecksumFailed      = errors.New("probemap: snapshot checksum verification failed")
	ErrCorruptedSnapshot   = errors.New("probemap: snapshot data is corrupted")
	ErrSnapshotRecordLimit = errors.New("probemap: entry exceeds maximum snapshot record size")
)
