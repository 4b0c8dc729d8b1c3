package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	liberrors "github.com/handiism/book-library/internal/errors"
)

func TestNewBook_Defaults(t *testing.T) {
	book, err := NewBook("  Dune  ", "", "   ", time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "Dune", book.Title())
	assert.Equal(t, UnknownAuthor, book.Author())
	assert.Equal(t, UnspecifiedGenre, book.Genre())
	assert.False(t, book.HasPublished())
	assert.Equal(t, -1, book.Year())
	assert.Equal(t, "unknown", book.YearString())
}

func TestNewBook_Validation(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0)

	tests := []struct {
		name      string
		title     string
		published time.Time
	}{
		{"empty title", "", time.Time{}},
		{"blank title", "   ", time.Time{}},
		{"future date", "Dune", future},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, err := NewBook(tt.title, "Herbert", "Sci-Fi", tt.published)
			require.Error(t, err)
			assert.True(t, liberrors.Is(err, liberrors.ErrValidation))
			assert.True(t, book.IsZero())
		})
	}
}

func TestBook_WithYear(t *testing.T) {
	book, err := NewBook("Dune", "Herbert", "Sci-Fi", time.Time{})
	require.NoError(t, err)

	withYear, err := book.WithYear(1965)
	require.NoError(t, err)
	assert.Equal(t, 1965, withYear.Year())
	assert.Equal(t, time.Date(1965, time.January, 1, 0, 0, 0, 0, time.UTC), withYear.Published())
	assert.Equal(t, -1, book.Year(), "receiver must stay unchanged")

	cleared, err := withYear.WithYear(-1)
	require.NoError(t, err)
	assert.False(t, cleared.HasPublished())

	_, err = book.WithYear(time.Now().Year() + 1)
	assert.True(t, liberrors.Is(err, liberrors.ErrValidation))
}

func TestBook_MutatorsRejectEmpty(t *testing.T) {
	book, err := NewBook("Dune", "Herbert", "Sci-Fi", time.Time{})
	require.NoError(t, err)

	_, err = book.WithTitle(" ")
	assert.Error(t, err)
	_, err = book.WithAuthor("")
	assert.Error(t, err)
	_, err = book.WithGenre("\t")
	assert.Error(t, err)

	renamed, err := book.WithTitle("  Dune Messiah ")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", renamed.Title())
}

func TestBook_Identity(t *testing.T) {
	a, err := NewBook("Dune", "Herbert", "Sci-Fi", time.Time{})
	require.NoError(t, err)
	b, err := NewBook("DUNE", "herbert", "Fantasy", time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	c, err := NewBook("Dune", "Lynch", "Sci-Fi", time.Time{})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))

	cyrillicA, err := NewBook("Война и мир", "Толстой", "", time.Time{})
	require.NoError(t, err)
	cyrillicB, err := NewBook("ВОЙНА И МИР", "толстой", "", time.Time{})
	require.NoError(t, err)
	assert.True(t, cyrillicA.Equal(cyrillicB))
}

func TestBook_String(t *testing.T) {
	book, err := NewBook("Dune", "Herbert", "Sci-Fi", time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "Title: Dune; Author: Herbert; Genre: Sci-Fi; Year: 1965", book.String())
}

func TestParsePublished(t *testing.T) {
	current := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"0", time.Time{}, false},
		{"1965", time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{" 2024 ", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024-06-15", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"2025", time.Time{}, true},
		{"2024-06-16", time.Time{}, true},
		{"-5", time.Time{}, true},
		{"nineteen", time.Time{}, true},
		{"2024-13-01", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePublished(tt.input, current)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, liberrors.Is(err, liberrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFoldEqual(t *testing.T) {
	assert.True(t, FoldEqual(" Sci-Fi", "sci-fi "))
	assert.True(t, FoldEqual("Ångström", "ÅNGSTRÖM"))
	assert.False(t, FoldEqual("Sci-Fi", "Fantasy"))
}
