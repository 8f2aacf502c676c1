// Package iox provides I/O helpers for resource cleanup.
package iox

import (
	"io"
	"os"
)

// DiscardClose closes c and discards the error.
// Use in defer statements where close errors are unactionable:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c.
// Designed for t.Cleanup and b.Cleanup registration:
//
//	t.Cleanup(iox.CloseFunc(client))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// DiscardErr calls fn and discards the returned error.
// Use for non-Close cleanup calls where errors are unactionable:
//
//	defer iox.DiscardErr(w.Flush)
func DiscardErr(fn func() error) { _ = fn() }

// DiscardRemove removes path and everything under it, discarding the error.
// Use in defer statements for scoped working directories:
//
//	defer iox.DiscardRemove(dir)
func DiscardRemove(path string) { _ = os.RemoveAll(path) }

// RemoveAllFunc returns a cleanup function that removes path recursively.
// Designed for t.Cleanup registration.
func RemoveAllFunc(path string) func() {
	return func() { _ = os.RemoveAll(path) }
}
