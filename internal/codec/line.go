// Package codec encodes books to and from the library's line format.
//
// Each book occupies one line:
//
//	[name = "Dune", author = "Herbert", genre = "Sci-Fi", year = 1965]
//
// The year is -1 when unknown. Only `"` and `\` are escaped in field values;
// any other backslash is literal text. Lines written without escapes by
// older tools are still accepted.
package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/book-library/internal/model"
)

// UnknownYear is the year written for books without a publication date.
const UnknownYear = -1

var (
	escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

	// quotedLine matches lines whose quotes inside values are escaped.
	quotedLine = regexp.MustCompile(
		`^\[name = "((?:[^"\\]|\\.)*)", author = "((?:[^"\\]|\\.)*)", genre = "((?:[^"\\]|\\.)*)", year = (-?\d+)\]$`,
	)

	// legacyLine matches lines with verbatim values, which may contain bare quotes.
	legacyLine = regexp.MustCompile(
		`^\[name = "(.*?)", author = "(.*?)", genre = "(.*?)", year = (-?\d+)\]$`,
	)
)

// Entry holds the raw fields decoded from one line.
type Entry struct {
	Title  string
	Author string
	Genre  string
	Year   int
}

// Book builds a validated book from the entry.
//
// Empty author and genre fall back to the model sentinels. A year that is
// not positive, or lies in the future, is treated as unknown rather than
// rejecting the line. An empty title is a validation error.
func (e Entry) Book() (model.Book, error) {
	book, err := model.NewBook(e.Title, e.Author, e.Genre, time.Time{})
	if err != nil {
		return model.Book{}, err
	}
	if e.Year > 0 {
		if dated, err := book.WithYear(e.Year); err == nil {
			book = dated
		}
	}
	return book, nil
}

// Encode renders book as a single line without the trailing newline.
//
// Example:
//
//	Encode(dune) // [name = "Dune", author = "Herbert", genre = "Sci-Fi", year = 1965]
func Encode(book model.Book) string {
	year := book.Year()
	if year <= 0 {
		year = UnknownYear
	}
	return fmt.Sprintf(`[name = "%s", author = "%s", genre = "%s", year = %d]`,
		escaper.Replace(book.Title()),
		escaper.Replace(book.Author()),
		escaper.Replace(book.Genre()),
		year,
	)
}

// Decode parses one line. It reports false when the line does not match the
// format; such lines are meant to be skipped, not treated as errors.
func Decode(line string) (Entry, bool) {
	line = strings.TrimSpace(line)

	if m := quotedLine.FindStringSubmatch(line); m != nil {
		year, err := strconv.Atoi(m[4])
		if err != nil {
			return Entry{}, false
		}
		return Entry{
			Title:  unquote(m[1]),
			Author: unquote(m[2]),
			Genre:  unquote(m[3]),
			Year:   year,
		}, true
	}

	if m := legacyLine.FindStringSubmatch(line); m != nil {
		year, err := strconv.Atoi(m[4])
		if err != nil {
			return Entry{}, false
		}
		return Entry{Title: m[1], Author: m[2], Genre: m[3], Year: year}, true
	}

	return Entry{}, false
}

// unquote reverses the \" and \\ escapes. Any other backslash is kept.
func unquote(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) && (raw[i+1] == '"' || raw[i+1] == '\\') {
			i++
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}
