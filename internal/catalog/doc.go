// Package catalog implements the in-memory book library.
//
// # Library
//
// Library groups books by genre and enforces that no two books share a
// title and author, ignoring case:
//
//	lib := catalog.New(catalog.WithLogger(logger))
//	err := lib.Add(dune)
//	book, ok := lib.FindByTitle("dune")
//	shelf, ok := lib.ListByGenre("sci-fi")
//
// # Editing
//
// Edit changes any subset of a book's fields and moves it between genres
// atomically:
//
//	book, err := lib.Edit("Dune", catalog.Changes{Genre: "Fantasy"})
//
// # Persistence
//
// The library is stored one book per line (see package codec):
//
//	res, err := lib.LoadFile(ctx, "files/lib.txt")
//	n, err := lib.SaveFile(ctx, "files/lib.txt")
//	imp, err := lib.ImportFiles(ctx, "files/books.txt")
//
// Errors are *errors.Error values from internal/errors; test them with
// errors.Is against ErrValidation, ErrAlreadyExists, ErrNotFound and ErrIO.
package catalog
