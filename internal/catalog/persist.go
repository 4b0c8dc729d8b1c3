package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/book-library/internal/codec"
	liberrors "github.com/handiism/book-library/internal/errors"
	ioutils "github.com/handiism/book-library/internal/io"
	"github.com/handiism/book-library/internal/model"
)

// maxConcurrentSources bounds how many import files are parsed at once.
const maxConcurrentSources = 4

// LoadResult summarises LoadFile.
type LoadResult struct {
	// Loaded counts books added to the catalog.
	Loaded int

	// Duplicates counts matching lines whose book was already present.
	Duplicates int

	// Rejected counts matching lines that failed validation (empty title).
	Rejected int
}

// ImportResult summarises ImportFiles.
type ImportResult struct {
	// Imported counts new books added to the catalog.
	Imported int

	// Skipped counts books whose title and author were already present.
	Skipped int

	// Rejected counts matching lines that failed validation (empty title).
	Rejected int
}

// source is one decoded input file.
type source struct {
	path     string
	books    []model.Book
	rejected int
}

// LoadFile adds every book stored in the library file at path.
//
// The file is read completely before the catalog is touched, so a read error
// leaves the catalog unchanged. Lines that do not match the line format are
// skipped silently. Books already in the catalog are counted as duplicates
// rather than aborting the load.
func (l *Library) LoadFile(ctx context.Context, path string) (LoadResult, error) {
	if strings.TrimSpace(path) == "" {
		return LoadResult{}, liberrors.Validation("file path cannot be empty")
	}

	src, err := readSource(ctx, path, l.logger)
	if err != nil {
		return LoadResult{}, err
	}

	result := LoadResult{Rejected: src.rejected}
	for _, book := range src.books {
		if err := l.Add(book); err != nil {
			if !liberrors.Is(err, liberrors.ErrAlreadyExists) {
				return result, err
			}
			result.Duplicates++
			l.logger.Debug("skipping duplicate book", "path", path, "title", book.Title(), "author", book.Author())
			continue
		}
		result.Loaded++
	}

	l.logger.Info("library loaded",
		"path", path,
		"loaded", result.Loaded,
		"duplicates", result.Duplicates,
		"rejected", result.Rejected,
	)
	return result, nil
}

// SaveFile replaces the file at path with one line per book, genre by genre.
//
// The write is atomic: on failure the previous file content is kept.
// Returns the number of books written.
func (l *Library) SaveFile(ctx context.Context, path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, liberrors.Validation("file path cannot be empty")
	}

	lines := make([]string, 0, len(l.books))
	for _, shelf := range l.ListAll() {
		for _, book := range shelf.Books {
			lines = append(lines, codec.Encode(book))
		}
	}

	if err := ioutils.WriteLines(ctx, path, lines); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, liberrors.IO("save library", err)
	}

	l.logger.Info("library saved", "path", path, "books", len(lines))
	return len(lines), nil
}

// ImportFiles merges books from one or more files in the library format.
//
// Files are read and decoded concurrently, then merged in argument order. A
// book whose title and author already exist, in the catalog or earlier in the
// import, is skipped. If any file cannot be read nothing is merged.
func (l *Library) ImportFiles(ctx context.Context, paths ...string) (ImportResult, error) {
	if len(paths) == 0 {
		return ImportResult{}, liberrors.Validation("no import files given")
	}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			return ImportResult{}, liberrors.Validation("file path cannot be empty")
		}
	}

	sources := make([]source, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSources)
	for i, path := range paths {
		g.Go(func() error {
			src, err := readSource(gctx, path, l.logger)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	for _, src := range sources {
		result.Rejected += src.rejected
		for _, book := range src.books {
			if l.indexOfKey(book.Key(), -1) >= 0 {
				result.Skipped++
				continue
			}
			l.books = append(l.books, book)
			result.Imported++
		}
		l.logger.Info("import source merged", "path", src.path, "books", len(src.books))
	}
	return result, nil
}

// readSource reads and decodes the file at path without touching any catalog.
func readSource(ctx context.Context, path string, logger *slog.Logger) (source, error) {
	lines, err := ioutils.ReadLines(ctx, path)
	if err != nil {
		return source{}, readError(ctx, path, err)
	}

	src := source{path: path}
	for n, line := range lines {
		entry, ok := codec.Decode(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				logger.Debug("skipping unrecognised line", "path", path, "line", n+1)
			}
			continue
		}
		book, err := entry.Book()
		if err != nil {
			src.rejected++
			logger.Warn("skipping invalid entry", "path", path, "line", n+1, "error", err)
			continue
		}
		src.books = append(src.books, book)
	}
	return src, nil
}

func readError(ctx context.Context, path string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return liberrors.IO("file does not exist", err)
	case errors.Is(err, fs.ErrPermission):
		return liberrors.IO("no permission to read file", err)
	default:
		return liberrors.IO(fmt.Sprintf("read %s", path), err)
	}
}
