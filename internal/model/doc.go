// Package model defines the book record kept by the library catalog.
//
// # Book
//
// Book is a validated, immutable value:
//
//	book, err := model.NewBook("Dune", "Herbert", "Sci-Fi", time.Time{})
//	book, err = book.WithYear(1965)
//	fmt.Println(book.Year()) // 1965
//
// An omitted author or genre falls back to UnknownAuthor and
// UnspecifiedGenre. Titles, authors and genres are trimmed and may not be
// empty. Publication dates may not lie in the future.
//
// # Identity
//
// Two books are the same entry when their titles and authors match under
// Unicode case folding:
//
//	a, _ := model.NewBook("Dune", "Herbert", "Sci-Fi", time.Time{})
//	b, _ := model.NewBook("DUNE", "herbert", "Fantasy", time.Time{})
//	a.Equal(b)          // true
//	a.Key() == b.Key()  // true
//
// # User Input
//
// ParsePublished turns a typed year ("1965") or date ("1965-08-01") into a
// publication date, rejecting future or malformed values.
package model
