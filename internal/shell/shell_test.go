package shell

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/book-library/internal/app"
	"github.com/handiism/book-library/internal/catalog"
	"github.com/handiism/book-library/internal/config"
	liberrors "github.com/handiism/book-library/internal/errors"
	"github.com/handiism/book-library/internal/model"
)

func newSession(t *testing.T) *app.Session {
	t.Helper()
	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.LibraryPath = filepath.Join(dir, "lib.txt")
	settings.ImportPaths = []string{filepath.Join(dir, "books.txt")}
	settings.HelpPath = filepath.Join(dir, "help.txt")
	return &app.Session{
		Settings: settings,
		Logger:   slog.New(slog.DiscardHandler),
		Library:  catalog.New(),
	}
}

func addBook(t *testing.T, s *app.Session, title, author, genre string, year int) {
	t.Helper()
	book, err := model.NewBook(title, author, genre, time.Time{})
	require.NoError(t, err)
	book, err = book.WithYear(year)
	require.NoError(t, err)
	require.NoError(t, s.Library.Add(book))
}

func run(t *testing.T, s *app.Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, New(s, strings.NewReader(input), &out).Run(context.Background()))
	return out.String()
}

func readLibrary(t *testing.T, s *app.Session) string {
	t.Helper()
	data, err := os.ReadFile(s.Settings.LibraryPath)
	require.NoError(t, err)
	return string(data)
}

func TestRun_AddListAndExit(t *testing.T) {
	s := newSession(t)
	out := run(t, s, "1\nDune\nHerbert\nSci-Fi\n1965\n4\n1\n8\n")

	assert.Contains(t, out, "Book added.")
	assert.Contains(t, out, "Herbert")
	assert.Contains(t, out, "Library saved (1 books). Goodbye!")
	assert.Equal(t,
		`[name = "Dune", author = "Herbert", genre = "Sci-Fi", year = 1965]`+"\n",
		readLibrary(t, s))
}

func TestRun_DuplicateAddKeepsLooping(t *testing.T) {
	s := newSession(t)
	out := run(t, s, "1\nDune\nHerbert\nSci-Fi\n1965\n1\ndune\nherbert\nSci-Fi\n1965\n8\n")

	assert.Contains(t, out, "Could not add the book")
	assert.Contains(t, out, "already exists")
	assert.Equal(t, 1, s.Library.Len())
}

func TestRun_RepromptsInvalidInput(t *testing.T) {
	s := newSession(t)
	out := run(t, s, "9\nabc\n1\n\nDune\n\n\n3000\n-5\nsoon\n1965-08-01\n8\n")

	assert.Contains(t, out, "Choose an option from 1 to 8.")
	assert.Contains(t, out, "Enter a valid whole number.")
	assert.Contains(t, out, "This field cannot be empty.")
	assert.Contains(t, out, "year cannot be in the future")
	assert.Contains(t, out, "year cannot be negative")
	assert.Contains(t, out, "enter a valid year")

	book, ok := s.Library.FindByTitle("Dune")
	require.True(t, ok)
	assert.Equal(t, model.UnknownAuthor, book.Author())
	assert.Equal(t, model.UnspecifiedGenre, book.Genre())
	assert.Equal(t, time.Date(1965, time.August, 1, 0, 0, 0, 0, time.UTC), book.Published())
}

func TestRun_EndOfInputSaves(t *testing.T) {
	s := newSession(t)
	out := run(t, s, "1\nDune\nHerbert\nSci-Fi\n0\n1\nEmma\n")

	assert.Contains(t, out, "Library saved (1 books)")
	assert.Contains(t, readLibrary(t, s), `year = -1`)
}

func TestRun_RemovePrunesGenre(t *testing.T) {
	s := newSession(t)
	addBook(t, s, "Dune", "Herbert", "Sci-Fi", 1965)

	out := run(t, s, "2\nEmma\n2\nDUNE\n4\n2\nSci-Fi\n8\n")

	assert.Contains(t, out, "Book not found in the library.")
	assert.Contains(t, out, "Book removed: Title: Dune; Author: Herbert; Genre: Sci-Fi; Year: 1965")
	assert.Contains(t, out, `Genre "Sci-Fi" has no books left.`)
	assert.Contains(t, out, `Genre "Sci-Fi" not found or empty.`)
}

func TestRun_FindBook(t *testing.T) {
	s := newSession(t)
	addBook(t, s, "Dune", "Herbert", "Sci-Fi", 1965)
	addBook(t, s, "The White Plague", "Herbert", "Thriller", 1982)

	out := run(t, s, "3\n1\ndune\n3\n2\nHERBERT\n3\n2\nTolkien\n8\n")

	assert.Contains(t, out, `Book "dune" is in the library.`)
	assert.Contains(t, out, "Title: Dune; Author: Herbert; Genre: Sci-Fi; Year: 1965")
	assert.Contains(t, out, "The White Plague")
	assert.Contains(t, out, "No books by Tolkien.")
}

func TestRun_EditMovesGenre(t *testing.T) {
	s := newSession(t)
	addBook(t, s, "Dune", "Herbert", "Sci-Fi", 1965)

	out := run(t, s, "5\nDune\n\n\nFantasy\n\n8\n")

	assert.Contains(t, out, "Book updated: Title: Dune; Author: Herbert; Genre: Fantasy; Year: 1965")
	_, ok := s.Library.ListByGenre("Sci-Fi")
	assert.False(t, ok)
	_, ok = s.Library.ListByGenre("Fantasy")
	assert.True(t, ok)
}

func TestRun_EditReportsCollision(t *testing.T) {
	s := newSession(t)
	addBook(t, s, "Dune", "Herbert", "Sci-Fi", 1965)
	addBook(t, s, "Emma", "Austen", "Romance", 1815)

	out := run(t, s, "5\nEmma\nDune\nHerbert\n\n\n5\nEmma\n\n\n\n\n5\nSolaris\n8\n")

	assert.Contains(t, out, "Could not edit the book")
	assert.Contains(t, out, "Nothing to change.")
	assert.Contains(t, out, "Book not found in the library.")

	emma, ok := s.Library.FindByTitle("Emma")
	require.True(t, ok)
	assert.Equal(t, "Austen", emma.Author())
}

func TestRun_ImportSavesImmediately(t *testing.T) {
	s := newSession(t)
	addBook(t, s, "Dune", "Herbert", "Sci-Fi", 1965)
	require.NoError(t, os.WriteFile(s.Settings.ImportPaths[0], []byte(
		`[name = "Dune", author = "Herbert", genre = "Sci-Fi", year = 1965]`+"\n"+
			`[name = "Emma", author = "Austen", genre = "Romance", year = 1815]`+"\n"), 0o644))

	var out bytes.Buffer
	sh := New(s, strings.NewReader("6\n"), &out)
	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, out.String(), "Imported 1 books, skipped 1 already in the library.")
	assert.Contains(t, out.String(), "Books imported and saved.")
	assert.Contains(t, readLibrary(t, s), `name = "Emma"`)
}

func TestRun_ImportMissingFile(t *testing.T) {
	s := newSession(t)
	out := run(t, s, "6\n8\n")

	assert.Contains(t, out, "Import failed")
	assert.Contains(t, out, "file does not exist")
}

func TestRun_HelpFallsBackToEmbeddedText(t *testing.T) {
	s := newSession(t)
	out := run(t, s, "7\n8\n")
	assert.Contains(t, out, "Could not read the help file")
	assert.Contains(t, out, "Book Library help")

	require.NoError(t, os.WriteFile(s.Settings.HelpPath, []byte("custom help text\n"), 0o644))
	out = run(t, s, "7\n8\n")
	assert.Contains(t, out, "custom help text")
	assert.NotContains(t, out, "Could not read the help file")
}

func TestRun_ReportsStartup(t *testing.T) {
	s := newSession(t)
	s.LoadErr = liberrors.IO("file does not exist", os.ErrNotExist)
	out := run(t, s, "8\n")
	assert.Contains(t, out, "The library will start empty.")

	s = newSession(t)
	s.Startup = catalog.LoadResult{Loaded: 3, Duplicates: 1}
	out = run(t, s, "8\n")
	assert.Contains(t, out, "Loaded 3 books")
	assert.Contains(t, out, "Skipped 1 duplicate and 0 invalid entries.")
}

func TestRun_SaveFailureStillExits(t *testing.T) {
	s := newSession(t)
	require.NoError(t, os.Mkdir(s.Settings.LibraryPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Settings.LibraryPath, "keep"), nil, 0o644))

	out := run(t, s, "8\n")
	assert.Contains(t, out, "Saving failed")
}

func TestRun_CancelledContextDoesNotSave(t *testing.T) {
	s := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(s, strings.NewReader("8\n"), &out).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(s.Settings.LibraryPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPrompter_ReadMenuChoice(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("0\n x \n 2 \n"), &out)

	choice, err := p.ReadMenuChoice(context.Background(), "FIND", findMenu)
	require.NoError(t, err)
	assert.Equal(t, 2, choice)
	assert.Contains(t, out.String(), "1. By title")
	assert.Contains(t, out.String(), "Choose an option from 1 to 2.")
}

func TestPrompter_CloseStopsReader(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewPrompter(pr, io.Discard)

	go func() { _, _ = io.WriteString(pw, "first\n") }()
	s, err := p.ReadString(context.Background(), "> ")
	require.NoError(t, err)
	assert.Equal(t, "first", s)

	require.NoError(t, p.Close())
	_, err = p.ReadString(context.Background(), "> ")
	assert.ErrorIs(t, err, io.EOF)

	// The next line reaches the blocked scanner; the reader then exits.
	go func() { _, _ = io.WriteString(pw, "second\n") }()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-p.lines:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestPrompter_ReadPublished(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("2999\n1965-07-04\n"), &out)
	p.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	published, err := p.ReadPublished(context.Background(), "Publication year")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1965, 7, 4, 0, 0, 0, 0, time.UTC), published)
	assert.Contains(t, out.String(), "only the year is saved")
	assert.Contains(t, out.String(), "future")
}
