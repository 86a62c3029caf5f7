//go:build !linux && !darwin

package probemap

import "os"

// fallocateFile pre-allocates disk blocks so a snapshot write cannot run out
// of space halfway through. On platforms without native fallocate, uses
// Truncate as a fallback. Note: this sets file size but may not reserve
// actual disk blocks on all filesystems.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
