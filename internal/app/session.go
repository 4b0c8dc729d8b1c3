// Package app wires settings, logging, the session lock and the catalog into
// a Session shared by the line shell and the terminal UI.
package app

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/handiism/book-library/internal/catalog"
	"github.com/handiism/book-library/internal/config"
	ioutils "github.com/handiism/book-library/internal/io"
	"github.com/handiism/book-library/internal/logging"
)

// DefaultHelp is shown when the help file cannot be read.
//
//go:embed help.txt
var DefaultHelp string

// Session is the state of one interactive run.
type Session struct {
	Settings *config.Settings
	Logger   *slog.Logger
	Library  *catalog.Library

	// Startup summarises loading the library file.
	Startup catalog.LoadResult

	// LoadErr is set when the library file could not be loaded; the catalog
	// then starts empty.
	LoadErr error

	lock      *ioutils.SessionLock
	logCloser io.Closer
}

// Bootstrap loads settings from configPath, builds the logger, takes the
// session lock and loads the library file.
//
// Log output goes to logFallback unless the settings name a log file.
// Invalid settings and a lock held by another process are returned as
// errors. A library that cannot be loaded is not: it is recorded in LoadErr.
func Bootstrap(ctx context.Context, configPath string, logFallback io.Writer) (*Session, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logger, logCloser, err := logging.NewFromConfig(settings, logFallback)
	if err != nil {
		return nil, err
	}

	lock, err := ioutils.Lock(settings.LockPath())
	if err != nil {
		_ = logCloser.Close()
		if errors.Is(err, ioutils.ErrLocked) {
			return nil, fmt.Errorf("library %s is open in another session: %w", settings.LibraryPath, err)
		}
		return nil, err
	}

	s := &Session{
		Settings:  settings,
		Logger:    logger,
		Library:   catalog.New(catalog.WithLogger(logger)),
		lock:      lock,
		logCloser: logCloser,
	}

	s.Startup, s.LoadErr = s.Library.LoadFile(ctx, settings.LibraryPath)
	if s.LoadErr != nil {
		logger.Warn("library not loaded, starting empty",
			"path", settings.LibraryPath,
			"error", s.LoadErr,
		)
	}
	return s, nil
}

// Save writes the catalog to the library file.
func (s *Session) Save(ctx context.Context) (int, error) {
	return s.Library.SaveFile(ctx, s.Settings.LibraryPath)
}

// Import merges the configured import files into the catalog.
func (s *Session) Import(ctx context.Context) (catalog.ImportResult, error) {
	return s.Library.ImportFiles(ctx, s.Settings.ImportPaths...)
}

// Help returns the help file text. If the file cannot be read it returns
// DefaultHelp together with the read error.
func (s *Session) Help(ctx context.Context) (string, error) {
	data, err := ioutils.ReadFile(ctx, s.Settings.HelpPath)
	if err != nil {
		return DefaultHelp, err
	}
	return string(data), nil
}

// Close releases the session lock and the log file.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	lockErr := s.lock.Unlock()
	var logErr error
	if s.logCloser != nil {
		logErr = s.logCloser.Close()
	}
	if lockErr != nil {
		return fmt.Errorf("release lock: %w", lockErr)
	}
	return logErr
}
