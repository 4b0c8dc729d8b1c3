package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	liberrors "github.com/handiism/book-library/internal/errors"
	"github.com/handiism/book-library/internal/model"
)

// Changes lists the fields to update in Edit. Empty strings and the zero
// time leave the corresponding field unchanged.
type Changes struct {
	Title     string
	Author    string
	Genre     string
	Published time.Time
}

// IsEmpty reports whether c changes nothing.
func (c Changes) IsEmpty() bool {
	return strings.TrimSpace(c.Title) == "" &&
		strings.TrimSpace(c.Author) == "" &&
		strings.TrimSpace(c.Genre) == "" &&
		c.Published.IsZero()
}

// Edit updates the first book whose title matches, ignoring case.
//
// A genre change only moves the book when the new genre differs from the
// current one ignoring case; the book then leaves its old bucket (dropping
// the bucket if it empties) and is appended to the new one.
//
// Edit is atomic. Every change is applied to a copy and checked first,
// including the identity the book would have afterwards against every other
// book in the catalog. On any error the catalog is left exactly as it was.
//
// Returns the edited book, a validation error for empty or invalid input, a
// not-found error, or an already-exists error on an identity collision.
func (l *Library) Edit(title string, changes Changes) (model.Book, error) {
	if strings.TrimSpace(title) == "" {
		return model.Book{}, liberrors.Validation("title of the book to edit cannot be empty")
	}
	i := l.indexOfTitle(title)
	if i < 0 {
		return model.Book{}, liberrors.NotFound(fmt.Sprintf("book %q not found", strings.TrimSpace(title)))
	}

	current := l.books[i]
	edited, moving, err := applyChanges(current, changes)
	if err != nil {
		return model.Book{}, err
	}

	if j := l.indexOfKey(edited.Key(), i); j >= 0 {
		other := l.books[j]
		if moving {
			return model.Book{}, liberrors.AlreadyExists(fmt.Sprintf(
				"book %q by %s already exists in genre %q", other.Title(), other.Author(), other.Genre()))
		}
		return model.Book{}, liberrors.AlreadyExists(fmt.Sprintf(
			"book %q by %s already exists", other.Title(), other.Author()))
	}

	if moving {
		l.books = append(slices.Delete(l.books, i, i+1), edited)
	} else {
		l.books[i] = edited
	}

	l.logger.Debug("book edited",
		"title", edited.Title(),
		"author", edited.Author(),
		"genre", edited.Genre(),
		"moved", moving,
	)
	return edited, nil
}

// applyChanges returns book with changes applied and whether it changes genre.
func applyChanges(book model.Book, changes Changes) (model.Book, bool, error) {
	var err error

	if strings.TrimSpace(changes.Title) != "" {
		if book, err = book.WithTitle(changes.Title); err != nil {
			return model.Book{}, false, err
		}
	}
	if strings.TrimSpace(changes.Author) != "" {
		if book, err = book.WithAuthor(changes.Author); err != nil {
			return model.Book{}, false, err
		}
	}
	if !changes.Published.IsZero() {
		if book, err = book.WithPublished(changes.Published); err != nil {
			return model.Book{}, false, err
		}
	}

	moving := strings.TrimSpace(changes.Genre) != "" && !model.FoldEqual(changes.Genre, book.Genre())
	if moving {
		if book, err = book.WithGenre(changes.Genre); err != nil {
			return model.Book{}, false, err
		}
	}
	return book, moving, nil
}
