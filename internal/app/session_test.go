package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	liberrors "github.com/handiism/book-library/internal/errors"
	ioutils "github.com/handiism/book-library/internal/io"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("library_path = %q\nimport_paths = [%q]\nhelp_path = %q\n",
		filepath.Join(dir, "lib.txt"),
		filepath.Join(dir, "books.txt"),
		filepath.Join(dir, "help.txt"),
	)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBootstrap_LoadsLibrary(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.txt"),
		[]byte(`[name = "Dune", author = "Herbert", genre = "Sci-Fi", year = 1965]`+"\n"), 0o644))

	s, err := Bootstrap(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.LoadErr)
	assert.Equal(t, 1, s.Startup.Loaded)
	assert.Equal(t, 1, s.Library.Len())
}

func TestBootstrap_MissingLibraryStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer

	s, err := Bootstrap(context.Background(), writeConfig(t, dir), &logs)
	require.NoError(t, err)
	defer s.Close()

	require.Error(t, s.LoadErr)
	assert.True(t, liberrors.Is(s.LoadErr, liberrors.ErrIO))
	assert.Equal(t, 0, s.Library.Len())
	assert.Contains(t, logs.String(), "library not loaded")
}

func TestBootstrap_SecondSessionIsLocked(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	first, err := Bootstrap(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = Bootstrap(context.Background(), cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ioutils.ErrLocked)

	require.NoError(t, first.Close())

	again, err := Bootstrap(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestBootstrap_InvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nformat = \"xml\"\n"), 0o644))

	_, err := Bootstrap(context.Background(), path, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, liberrors.Is(err, liberrors.ErrValidation))
}

func TestSession_SaveAndImport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.txt"),
		[]byte(`[name = "Emma", author = "Austen", genre = "Romance", year = 1815]`+"\n"), 0o644))

	s, err := Bootstrap(context.Background(), writeConfig(t, dir), &bytes.Buffer{})
	require.NoError(t, err)
	defer s.Close()

	res, err := s.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	n, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(dir, "lib.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `name = "Emma"`)
}

func TestSession_CloseNil(t *testing.T) {
	var s *Session
	assert.NoError(t, s.Close())
}

func TestSession_Help(t *testing.T) {
	dir := t.TempDir()
	s, err := Bootstrap(context.Background(), writeConfig(t, dir), &bytes.Buffer{})
	require.NoError(t, err)
	defer s.Close()

	text, err := s.Help(context.Background())
	require.Error(t, err)
	assert.Equal(t, DefaultHelp, text)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "help.txt"), []byte("custom help\n"), 0o644))
	text, err = s.Help(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom help\n", text)
}
