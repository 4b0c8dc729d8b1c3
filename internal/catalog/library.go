package catalog

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	liberrors "github.com/handiism/book-library/internal/errors"
	"github.com/handiism/book-library/internal/model"
)

// Shelf is the read-only view of one genre bucket.
type Shelf struct {
	// Genre is the bucket's display name, taken from its first book.
	Genre string

	// Books lists the bucket's books in catalog order.
	Books []model.Book
}

// Removal describes the outcome of RemoveByTitle.
type Removal struct {
	// Book is the removed book.
	Book model.Book

	// GenreRemoved is true when the book was the last one in its genre.
	GenreRemoved bool
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger used for load, save and import diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Library is an in-memory book catalog grouped by genre.
//
// Books are kept in one ordered slice; genre buckets are derived from each
// book's own genre, compared case-insensitively. A book therefore always sits
// in exactly the bucket its genre names, and an empty bucket cannot exist.
//
// Library is not safe for concurrent use.
type Library struct {
	books  []model.Book
	logger *slog.Logger
}

// New creates an empty Library.
func New(opts ...Option) *Library {
	l := &Library{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Len returns the number of books in the catalog.
func (l *Library) Len() int {
	return len(l.books)
}

// Add inserts book into its genre bucket.
//
// Returns an already-exists error if a book with the same title and author
// (case-insensitive) exists anywhere in the catalog, and a validation error
// for the zero Book. The catalog is unchanged on error.
func (l *Library) Add(book model.Book) error {
	if book.IsZero() {
		return liberrors.Validation("book cannot be empty")
	}
	if i := l.indexOfKey(book.Key(), -1); i >= 0 {
		existing := l.books[i]
		return liberrors.AlreadyExists(fmt.Sprintf("book %q by %s already exists in genre %q",
			existing.Title(), existing.Author(), existing.Genre()))
	}
	l.books = append(l.books, book)
	return nil
}

// FindByTitle returns the first book whose title matches, ignoring case,
// scanning every genre.
func (l *Library) FindByTitle(title string) (model.Book, bool) {
	i := l.indexOfTitle(title)
	if i < 0 {
		return model.Book{}, false
	}
	return l.books[i], true
}

// FindByAuthor returns every book by author, ignoring case, across all genres.
func (l *Library) FindByAuthor(author string) []model.Book {
	if strings.TrimSpace(author) == "" {
		return nil
	}
	var found []model.Book
	for _, b := range l.books {
		if model.FoldEqual(b.Author(), author) {
			found = append(found, b)
		}
	}
	return found
}

// ListByGenre returns the bucket for genre, ignoring case. It reports false
// when the genre has no books.
func (l *Library) ListByGenre(genre string) (Shelf, bool) {
	if strings.TrimSpace(genre) == "" {
		return Shelf{}, false
	}
	for _, shelf := range l.ListAll() {
		if model.FoldEqual(shelf.Genre, genre) {
			return shelf, true
		}
	}
	return Shelf{}, false
}

// ListAll returns every genre bucket, ordered by the first appearance of
// the genre in the catalog.
func (l *Library) ListAll() []Shelf {
	var shelves []Shelf
	index := make(map[string]int)
	for _, b := range l.books {
		key := model.Fold(b.Genre())
		i, ok := index[key]
		if !ok {
			i = len(shelves)
			index[key] = i
			shelves = append(shelves, Shelf{Genre: b.Genre()})
		}
		shelves[i].Books = append(shelves[i].Books, b)
	}
	return shelves
}

// Genres returns the display names of all non-empty genres.
func (l *Library) Genres() []string {
	shelves := l.ListAll()
	genres := make([]string, len(shelves))
	for i, s := range shelves {
		genres[i] = s.Genre
	}
	return genres
}

// RemoveByTitle removes the first book whose title matches, ignoring case.
//
// Returns a validation error for an empty title and a not-found error when
// no book matches.
func (l *Library) RemoveByTitle(title string) (Removal, error) {
	if strings.TrimSpace(title) == "" {
		return Removal{}, liberrors.Validation("book title cannot be empty")
	}
	i := l.indexOfTitle(title)
	if i < 0 {
		return Removal{}, liberrors.NotFound(fmt.Sprintf("book %q not found in library", strings.TrimSpace(title)))
	}

	removed := l.books[i]
	l.books = slices.Delete(l.books, i, i+1)

	return Removal{
		Book:         removed,
		GenreRemoved: !l.hasGenre(removed.Genre()),
	}, nil
}

func (l *Library) indexOfTitle(title string) int {
	if strings.TrimSpace(title) == "" {
		return -1
	}
	for i, b := range l.books {
		if model.FoldEqual(b.Title(), title) {
			return i
		}
	}
	return -1
}

// indexOfKey returns the index of the book with key, ignoring index skip.
func (l *Library) indexOfKey(key model.Key, skip int) int {
	for i, b := range l.books {
		if i != skip && b.Key() == key {
			return i
		}
	}
	return -1
}

func (l *Library) hasGenre(genre string) bool {
	for _, b := range l.books {
		if model.FoldEqual(b.Genre(), genre) {
			return true
		}
	}
	return false
}
