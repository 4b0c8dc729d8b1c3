package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	liberrors "github.com/handiism/book-library/internal/errors"
)

// Sentinel values substituted when an optional field is omitted.
const (
	UnknownAuthor    = "unknown"
	UnspecifiedGenre = "unspecified"
)

// dateLayout is the layout accepted for full publication dates.
const dateLayout = "2006-01-02"

// now is the clock used for future-date checks.
var now = time.Now

var folder = cases.Fold()

// Book represents one catalog entry.
//
// Book is an immutable value: every mutator validates its input and returns a
// modified copy, leaving the receiver untouched. This lets the catalog apply
// an edit to a copy, check it, and only then swap it in.
//
// Identity is the (title, author) pair compared with Unicode case folding.
// Two books with the same identity are Equal and share the same Key, even if
// they differ in case, genre or publication date.
//
// Example:
//
//	book, err := NewBook("Dune", "Herbert", "Sci-Fi", time.Time{})
//	book, err = book.WithYear(1965)
//	fmt.Println(book) // Title: Dune; Author: Herbert; Genre: Sci-Fi; Year: 1965
type Book struct {
	title     string
	author    string
	genre     string
	published time.Time
}

// Key is the comparable identity of a book, suitable as a map key.
type Key struct {
	title  string
	author string
}

// NewBook creates a validated Book.
//
// Parameters:
//   - title: required, trimmed
//   - author: trimmed; empty means UnknownAuthor
//   - genre: trimmed; empty means UnspecifiedGenre
//   - published: zero means no known publication date
//
// Returns a validation error if the title is empty or the date lies in
// the future.
func NewBook(title, author, genre string, published time.Time) (Book, error) {
	if strings.TrimSpace(author) == "" {
		author = UnknownAuthor
	}
	if strings.TrimSpace(genre) == "" {
		genre = UnspecifiedGenre
	}

	var b Book
	var err error
	if b, err = b.WithTitle(title); err != nil {
		return Book{}, err
	}
	if b, err = b.WithAuthor(author); err != nil {
		return Book{}, err
	}
	if b, err = b.WithGenre(genre); err != nil {
		return Book{}, err
	}
	if b, err = b.WithPublished(published); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Title returns the book title as entered.
func (b Book) Title() string { return b.title }

// Author returns the book author as entered.
func (b Book) Author() string { return b.author }

// Genre returns the genre the book is shelved under.
func (b Book) Genre() string { return b.genre }

// Published returns the publication date, or the zero time when unknown.
func (b Book) Published() time.Time { return b.published }

// HasPublished reports whether a publication date is known.
func (b Book) HasPublished() bool { return !b.published.IsZero() }

// Year returns the publication year, or -1 when unknown.
func (b Book) Year() int {
	if b.published.IsZero() {
		return -1
	}
	return b.published.Year()
}

// YearString returns the publication year for display, or "unknown".
func (b Book) YearString() string {
	if b.published.IsZero() {
		return "unknown"
	}
	return strconv.Itoa(b.published.Year())
}

// IsZero reports whether b is the zero Book, which is never a valid entry.
func (b Book) IsZero() bool {
	return b.title == ""
}

// WithTitle returns a copy of b with a new title.
func (b Book) WithTitle(title string) (Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return b, liberrors.Validation("book title cannot be empty")
	}
	b.title = title
	return b, nil
}

// WithAuthor returns a copy of b with a new author.
func (b Book) WithAuthor(author string) (Book, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return b, liberrors.Validation("author cannot be empty")
	}
	b.author = author
	return b, nil
}

// WithGenre returns a copy of b shelved under a new genre.
func (b Book) WithGenre(genre string) (Book, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return b, liberrors.Validation("genre cannot be empty")
	}
	b.genre = genre
	return b, nil
}

// WithPublished returns a copy of b with a new publication date.
// The zero time clears the date. Dates after today are rejected.
func (b Book) WithPublished(published time.Time) (Book, error) {
	if published.IsZero() {
		b.published = time.Time{}
		return b, nil
	}
	day := dateOnly(published)
	if day.After(dateOnly(now())) {
		return b, liberrors.Validation("publication date cannot be in the future")
	}
	b.published = day
	return b, nil
}

// WithYear returns a copy of b published on January 1 of year.
// A year <= 0 clears the date; a year after the current one is rejected.
func (b Book) WithYear(year int) (Book, error) {
	if year <= 0 {
		b.published = time.Time{}
		return b, nil
	}
	if year > now().Year() {
		return b, liberrors.Validation("publication year cannot be in the future")
	}
	b.published = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return b, nil
}

// Key returns the case-folded identity of b.
func (b Book) Key() Key {
	return Key{title: Fold(b.title), author: Fold(b.author)}
}

// Equal reports whether b and other share the same identity.
func (b Book) Equal(other Book) bool {
	return b.Key() == other.Key()
}

// String renders a one-line summary.
func (b Book) String() string {
	return fmt.Sprintf("Title: %s; Author: %s; Genre: %s; Year: %s",
		b.title, b.author, b.genre, b.YearString())
}

// Fold returns s case-folded for comparisons.
func Fold(s string) string {
	return folder.String(s)
}

// FoldEqual reports whether a and b are equal under Unicode case folding,
// ignoring surrounding whitespace.
func FoldEqual(a, b string) bool {
	return Fold(strings.TrimSpace(a)) == Fold(strings.TrimSpace(b))
}

// ParsePublished parses a publication year or date typed by the user.
//
// Accepted forms:
//   - "" or "0": no date (zero time, nil error)
//   - "1965": January 1 of that year
//   - "1965-08-01": that exact day
//
// Negative years, future dates and anything else are validation errors.
func ParsePublished(input string, current time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || input == "0" {
		return time.Time{}, nil
	}

	if strings.Contains(strings.TrimPrefix(input, "-"), "-") {
		date, err := time.Parse(dateLayout, input)
		if err != nil {
			return time.Time{}, liberrors.Validation("enter a date as YYYY-MM-DD (for example 2023-12-31)")
		}
		if date.After(dateOnly(current)) {
			return time.Time{}, liberrors.Validation("date cannot be in the future")
		}
		return date, nil
	}

	year, err := strconv.Atoi(input)
	if err != nil {
		return time.Time{}, liberrors.Validation("enter a valid year")
	}
	switch {
	case year == 0:
		return time.Time{}, nil
	case year < 0:
		return time.Time{}, liberrors.Validation("year cannot be negative")
	case year > current.Year():
		return time.Time{}, liberrors.Validation("year cannot be in the future")
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
