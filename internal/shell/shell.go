// Package shell implements the numbered-menu terminal front end.
//
// A Shell reads choices and field values through a Prompter, calls one
// catalog operation per action and reports the outcome. Catalog failures are
// shown as messages; only end of input or cancellation ends the loop.
//
//	sh := shell.New(session, os.Stdin, os.Stdout)
//	err := sh.Run(ctx)
package shell

import (
	"context"
	"errors"
	"io"

	"github.com/handiism/book-library/internal/app"
	"github.com/handiism/book-library/internal/catalog"
	liberrors "github.com/handiism/book-library/internal/errors"
	"github.com/handiism/book-library/internal/model"
)

var (
	mainMenu = []string{
		"Add book",
		"Remove book",
		"Find book",
		"List books",
		"Edit book",
		"Import books",
		"Help",
		"Save and exit",
	}
	findMenu = []string{"By title", "By author"}
	listMenu = []string{"All books", "By genre"}
)

const (
	actionAdd = iota + 1
	actionRemove
	actionFind
	actionList
	actionEdit
	actionImport
	actionHelp
	actionExit
)

// Shell is the interactive line-mode front end of a Session.
type Shell struct {
	session *app.Session
	lib     *catalog.Library
	prompt  *Prompter
	out     *printer
}

// New creates a Shell reading from in and writing to out.
func New(session *app.Session, in io.Reader, out io.Writer) *Shell {
	p := newPrinter(out)
	return &Shell{
		session: session,
		lib:     session.Library,
		prompt:  newPrompter(in, p),
		out:     p,
	}
}

// Run reports the start-up load and serves the menu until "Save and exit"
// or end of input, then saves the library.
//
// A failed save is reported on screen and does not make Run fail. If ctx
// ends, Run returns its error without saving.
func (s *Shell) Run(ctx context.Context) error {
	defer s.prompt.Close()

	if isTerminal(s.out.out) {
		s.out.banner()
	}
	s.reportStartup()

	for {
		choice, err := s.prompt.ReadMenuChoice(ctx, "LIBRARY MENU", mainMenu)
		if err == nil {
			if choice == actionExit {
				break
			}
			err = s.dispatch(ctx, choice)
		}
		if errors.Is(err, io.EOF) {
			s.out.println("")
			break
		}
		if err != nil {
			return err
		}
	}

	s.saveAndExit(ctx)
	return nil
}

func (s *Shell) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case actionAdd:
		return s.addBook(ctx)
	case actionRemove:
		return s.removeBook(ctx)
	case actionFind:
		return s.findBook(ctx)
	case actionList:
		return s.listBooks(ctx)
	case actionEdit:
		return s.editBook(ctx)
	case actionImport:
		s.importBooks(ctx)
	case actionHelp:
		s.showHelp(ctx)
	}
	return nil
}

func (s *Shell) reportStartup() {
	if err := s.session.LoadErr; err != nil {
		s.out.message(LevelWarning, "%v", err)
		s.out.message(LevelWarning, "The library will start empty.")
		return
	}
	res := s.session.Startup
	s.out.message(LevelInfo, "Loaded %d books from %s.", res.Loaded, s.session.Settings.LibraryPath)
	if res.Duplicates > 0 || res.Rejected > 0 {
		s.out.message(LevelWarning, "Skipped %d duplicate and %d invalid entries.", res.Duplicates, res.Rejected)
	}
}

func (s *Shell) addBook(ctx context.Context) error {
	s.out.heading("Add a new book")

	title, err := s.prompt.ReadNonEmpty(ctx, "Title: ")
	if err != nil {
		return err
	}
	author, err := s.prompt.ReadString(ctx, "Author (empty if unknown): ")
	if err != nil {
		return err
	}
	genre, err := s.prompt.ReadString(ctx, "Genre (empty if unspecified): ")
	if err != nil {
		return err
	}
	published, err := s.prompt.ReadPublished(ctx, "Publication year")
	if err != nil {
		return err
	}

	book, err := model.NewBook(title, author, genre, published)
	if err == nil {
		err = s.lib.Add(book)
	}
	if err != nil {
		s.out.message(LevelError, "Could not add the book: %v", err)
		return nil
	}
	s.out.message(LevelSuccess, "Book added.")
	return nil
}

func (s *Shell) removeBook(ctx context.Context) error {
	s.out.heading("Remove a book")

	title, err := s.prompt.ReadNonEmpty(ctx, "Title of the book to remove: ")
	if err != nil {
		return err
	}

	removal, err := s.lib.RemoveByTitle(title)
	switch {
	case liberrors.Is(err, liberrors.ErrNotFound):
		s.out.message(LevelWarning, "Book not found in the library.")
	case err != nil:
		s.out.message(LevelError, "Could not remove the book: %v", err)
	default:
		s.out.message(LevelSuccess, "Book removed: %s", removal.Book)
		if removal.GenreRemoved {
			s.out.message(LevelInfo, "Genre %q has no books left.", removal.Book.Genre())
		}
	}
	return nil
}

func (s *Shell) findBook(ctx context.Context) error {
	s.out.heading("Find a book")

	choice, err := s.prompt.ReadMenuChoice(ctx, "FIND", findMenu)
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		title, err := s.prompt.ReadNonEmpty(ctx, "Title: ")
		if err != nil {
			return err
		}
		book, ok := s.lib.FindByTitle(title)
		if !ok {
			s.out.message(LevelWarning, "Book not found.")
			return nil
		}
		s.out.message(LevelSuccess, "Book %q is in the library.", title)
		s.out.println(book.String())
	case 2:
		author, err := s.prompt.ReadNonEmpty(ctx, "Author: ")
		if err != nil {
			return err
		}
		books := s.lib.FindByAuthor(author)
		if len(books) == 0 {
			s.out.message(LevelWarning, "No books by %s.", author)
			return nil
		}
		s.out.books(books)
	}
	return nil
}

func (s *Shell) listBooks(ctx context.Context) error {
	s.out.heading("List books")

	choice, err := s.prompt.ReadMenuChoice(ctx, "LIST", listMenu)
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		if s.lib.Len() == 0 {
			s.out.message(LevelInfo, "The library is empty.")
			return nil
		}
		s.out.shelves(s.lib.ListAll())
	case 2:
		genre, err := s.prompt.ReadNonEmpty(ctx, "Genre: ")
		if err != nil {
			return err
		}
		shelf, ok := s.lib.ListByGenre(genre)
		if !ok {
			s.out.message(LevelWarning, "Genre %q not found or empty.", genre)
			return nil
		}
		s.out.message(LevelInfo, "Genre: %s", shelf.Genre)
		s.out.books(shelf.Books)
	}
	return nil
}

func (s *Shell) editBook(ctx context.Context) error {
	s.out.heading("Edit a book")

	title, err := s.prompt.ReadNonEmpty(ctx, "Title of the book to edit: ")
	if err != nil {
		return err
	}
	current, ok := s.lib.FindByTitle(title)
	if !ok {
		s.out.message(LevelWarning, "Book not found in the library.")
		return nil
	}
	s.out.println(current.String())

	var changes catalog.Changes
	if changes.Title, err = s.prompt.ReadString(ctx, "New title (empty to keep): "); err != nil {
		return err
	}
	if changes.Author, err = s.prompt.ReadString(ctx, "New author (empty to keep): "); err != nil {
		return err
	}
	if changes.Genre, err = s.prompt.ReadString(ctx, "New genre (empty to keep): "); err != nil {
		return err
	}
	if changes.Published, err = s.prompt.ReadPublished(ctx, "New publication year"); err != nil {
		return err
	}

	if changes.IsEmpty() {
		s.out.message(LevelInfo, "Nothing to change.")
		return nil
	}

	edited, err := s.lib.Edit(title, changes)
	if err != nil {
		s.out.message(LevelError, "Could not edit the book: %v", err)
		return nil
	}
	s.out.message(LevelSuccess, "Book updated: %s", edited)
	return nil
}

func (s *Shell) importBooks(ctx context.Context) {
	s.out.heading("Import books")

	res, err := s.session.Import(ctx)
	if err != nil {
		s.out.message(LevelError, "Import failed: %v", err)
		return
	}
	s.out.message(LevelInfo, "Imported %d books, skipped %d already in the library.", res.Imported, res.Skipped)
	if res.Rejected > 0 {
		s.out.message(LevelWarning, "Ignored %d invalid entries.", res.Rejected)
	}

	if _, err := s.session.Save(ctx); err != nil {
		s.out.message(LevelError, "Could not save the library: %v", err)
		return
	}
	s.out.message(LevelSuccess, "Books imported and saved.")
}

func (s *Shell) showHelp(ctx context.Context) {
	s.out.heading("Help")

	text, err := s.session.Help(ctx)
	if err != nil {
		s.out.message(LevelWarning, "Could not read the help file: %v", err)
	}
	s.out.println(text)
}

func (s *Shell) saveAndExit(ctx context.Context) {
	n, err := s.session.Save(ctx)
	if err != nil {
		s.out.message(LevelError, "Saving failed: %v", err)
		return
	}
	s.out.message(LevelSuccess, "Library saved (%d books). Goodbye!", n)
}
