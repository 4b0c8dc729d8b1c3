// Package ioutils provides file system utilities for the book library.
//
// # Reading
//
//	lines, err := ioutils.ReadLines(ctx, "files/lib.txt")
//	help, err := ioutils.ReadFile(ctx, "files/help.txt")
//
// # Writing
//
// WriteLines replaces a file atomically, so an interrupted or failed save
// never truncates the existing library:
//
//	err := ioutils.WriteLines(ctx, "files/lib.txt", lines)
//
// # Session Lock
//
// Lock takes an exclusive advisory lock (flock) so two sessions cannot edit
// the same library file at once:
//
//	lock, err := ioutils.Lock("files/lib.txt.lock")
//	defer lock.Unlock()
package ioutils
