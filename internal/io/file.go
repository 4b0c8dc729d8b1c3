package ioutils

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// maxLineSize bounds a single line read by ReadLines.
const maxLineSize = 1 << 20

// ReadLines reads the whole file at path and returns its lines without
// line terminators. A trailing "\r" from CRLF files is left for the caller
// to trim.
//
// The file is opened, read in one pass, and closed before returning.
// Errors from os.Open are returned unwrapped so callers can test them with
// errors.Is(err, fs.ErrNotExist) and fs.ErrPermission.
//
// Example:
//
//	lines, err := ReadLines(ctx, "files/lib.txt")
func ReadLines(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// ReadFile reads the whole file at path.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// WriteLines replaces the file at path with lines, each terminated by "\n".
//
// The content is written to a temporary file in the same directory, synced,
// and renamed over path, so readers never observe a half-written file and a
// failed write leaves the previous content intact. Missing parent
// directories are created. The resulting file has mode 0644.
//
// Example:
//
//	err := WriteLines(ctx, "files/lib.txt", []string{line1, line2})
func WriteLines(ctx context.Context, path string, lines []string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err = w.WriteString(line); err != nil {
			return err
		}
		if err = w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
