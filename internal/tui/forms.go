package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/book-library/internal/catalog"
	liberrors "github.com/handiism/book-library/internal/errors"
	"github.com/handiism/book-library/internal/model"
)

type formKind int

const (
	formAdd formKind = iota
	formRemove
	formFindTitle
	formFindAuthor
	formListGenre
	formEdit
)

type fieldSpec struct {
	label       string
	placeholder string
	required    bool
	published   bool
}

type formSpec struct {
	title  string
	fields []fieldSpec
}

const (
	yearPlaceholder = "YYYY or YYYY-MM-DD, empty if unknown"
	yearSavedHint   = "Only the year is saved to the library file."
)

var forms = map[formKind]formSpec{
	formAdd: {title: "Add a new book", fields: []fieldSpec{
		{label: "Title", required: true},
		{label: "Author", placeholder: model.UnknownAuthor},
		{label: "Genre", placeholder: model.UnspecifiedGenre},
		{label: "Year", placeholder: yearPlaceholder, published: true},
	}},
	formRemove: {title: "Remove a book", fields: []fieldSpec{
		{label: "Title", required: true},
	}},
	formFindTitle: {title: "Find by title", fields: []fieldSpec{
		{label: "Title", required: true},
	}},
	formFindAuthor: {title: "Find by author", fields: []fieldSpec{
		{label: "Author", required: true},
	}},
	formListGenre: {title: "List a genre", fields: []fieldSpec{
		{label: "Genre", required: true},
	}},
	formEdit: {title: "Edit a book", fields: []fieldSpec{
		{label: "Book to edit", placeholder: "current title", required: true},
		{label: "New title", placeholder: "keep"},
		{label: "New author", placeholder: "keep"},
		{label: "New genre", placeholder: "keep"},
		{label: "New year", placeholder: "keep", published: true},
	}},
}

// now is the clock used to validate publication dates.
var now = time.Now

func (m Model) openForm(kind formKind) (tea.Model, tea.Cmd) {
	spec := forms[kind]
	m.form = kind
	m.formErr = ""
	m.focused = 0
	m.inputs = make([]textinput.Model, len(spec.fields))
	for i, f := range spec.fields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = 200
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.state = StateForm
	return m, m.inputs[0].Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateMenu
		return m, nil
	case "tab", "down":
		return m.focus(m.focused + 1)
	case "shift+tab", "up":
		return m.focus(m.focused - 1)
	case "enter":
		if m.focused < len(m.inputs)-1 {
			return m.focus(m.focused + 1)
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m Model) focus(i int) (tea.Model, tea.Cmd) {
	n := len(m.inputs)
	m.inputs[m.focused].Blur()
	m.focused = (i%n + n) % n
	return m, m.inputs[m.focused].Focus()
}

// submit validates the form and runs its catalog operation.
func (m Model) submit() (tea.Model, tea.Cmd) {
	spec := forms[m.form]
	values := make([]string, len(m.inputs))
	var published time.Time
	for i, f := range spec.fields {
		values[i] = strings.TrimSpace(m.inputs[i].Value())
		if f.required && values[i] == "" {
			m.formErr = f.label + " cannot be empty"
			return m.focus(i)
		}
		if f.published {
			p, err := model.ParsePublished(values[i], now())
			if err != nil {
				m.formErr = err.Error()
				return m.focus(i)
			}
			published = p
		}
	}

	switch m.form {
	case formAdd:
		m.add(values, published)
	case formRemove:
		m.remove(values[0])
	case formFindTitle:
		m.findTitle(values[0])
	case formFindAuthor:
		m.findAuthor(values[0])
	case formListGenre:
		m.listGenre(values[0])
	case formEdit:
		m.edit(values, published)
	}
	return m, nil
}

func (m *Model) add(values []string, published time.Time) {
	book, err := model.NewBook(values[0], values[1], values[2], published)
	if err == nil {
		err = m.lib.Add(book)
	}
	if err != nil {
		m.showResult(msgf(LevelError, "Could not add the book: %v", err))
		return
	}
	m.showResult(msgf(LevelSuccess, "Book added: %s", book))
}

func (m *Model) remove(title string) {
	removal, err := m.lib.RemoveByTitle(title)
	switch {
	case liberrors.Is(err, liberrors.ErrNotFound):
		m.showResult(msgf(LevelWarning, "Book not found in the library."))
	case err != nil:
		m.showResult(msgf(LevelError, "Could not remove the book: %v", err))
	default:
		msgs := []Message{msgf(LevelSuccess, "Book removed: %s", removal.Book)}
		if removal.GenreRemoved {
			msgs = append(msgs, msgf(LevelInfo, "Genre %q has no books left.", removal.Book.Genre()))
		}
		m.showResult(msgs...)
	}
}

func (m *Model) findTitle(title string) {
	book, ok := m.lib.FindByTitle(title)
	if !ok {
		m.showResult(msgf(LevelWarning, "Book not found."))
		return
	}
	m.showBooks([]model.Book{book}, msgf(LevelSuccess, "Book %q is in the library.", title))
}

func (m *Model) findAuthor(author string) {
	books := m.lib.FindByAuthor(author)
	if len(books) == 0 {
		m.showResult(msgf(LevelWarning, "No books by %s.", author))
		return
	}
	m.showBooks(books, msgf(LevelInfo, "%d books by %s.", len(books), author))
}

func (m *Model) listGenre(genre string) {
	shelf, ok := m.lib.ListByGenre(genre)
	if !ok {
		m.showResult(msgf(LevelWarning, "Genre %q not found or empty.", genre))
		return
	}
	m.showBooks(shelf.Books, msgf(LevelInfo, "Genre: %s", shelf.Genre))
}

func (m *Model) showAll() {
	if m.lib.Len() == 0 {
		m.showResult(msgf(LevelInfo, "The library is empty."))
		return
	}
	var books []model.Book
	shelves := m.lib.ListAll()
	for _, s := range shelves {
		books = append(books, s.Books...)
	}
	m.showBooks(books, msgf(LevelInfo, "%d books in %d genres.", len(books), len(shelves)))
}

func (m *Model) edit(values []string, published time.Time) {
	title := values[0]
	if _, ok := m.lib.FindByTitle(title); !ok {
		m.showResult(msgf(LevelWarning, "Book not found in the library."))
		return
	}
	changes := catalog.Changes{
		Title:     values[1],
		Author:    values[2],
		Genre:     values[3],
		Published: published,
	}
	if changes.IsEmpty() {
		m.showResult(msgf(LevelInfo, "Nothing to change."))
		return
	}
	edited, err := m.lib.Edit(title, changes)
	if err != nil {
		m.showResult(msgf(LevelError, "Could not edit the book: %v", err))
		return
	}
	m.showResult(msgf(LevelSuccess, "Book updated: %s", edited))
}

func (m *Model) showImport(msg importDoneMsg) {
	if msg.err != nil {
		m.showResult(msgf(LevelError, "Import failed: %v", msg.err))
		return
	}
	msgs := []Message{msgf(LevelInfo, "Imported %d books, skipped %d already in the library.",
		msg.result.Imported, msg.result.Skipped)}
	if msg.result.Rejected > 0 {
		msgs = append(msgs, msgf(LevelWarning, "Ignored %d invalid entries.", msg.result.Rejected))
	}
	if msg.saveErr != nil {
		msgs = append(msgs, msgf(LevelError, "Could not save the library: %v", msg.saveErr))
	} else {
		msgs = append(msgs, msgf(LevelSuccess, "Books imported and saved (%d books).", msg.saved))
	}
	m.showResult(msgs...)
}

func (m *Model) showHelp() {
	text, err := m.session.Help(m.ctx)
	m.showResult()
	if err != nil {
		m.messages = []Message{msgf(LevelWarning, "Could not read the help file: %v", err)}
	}
	m.text = strings.TrimRight(text, "\n")
}

func (m *Model) showResult(msgs ...Message) {
	m.state = StateResult
	m.messages = msgs
	m.hasTable = false
	m.text = ""
}

func (m *Model) showBooks(books []model.Book, msgs ...Message) {
	m.showResult(msgs...)
	m.table = booksTable(books, m.tableHeight(len(books)))
	m.hasTable = true
}

const maxTableRows = 15

func (m Model) tableHeight(rows int) int {
	limit := maxTableRows
	if m.height > 0 {
		// header, status lines and footer
		limit = max(3, min(limit, m.height-12))
	}
	return min(rows, limit) + 2
}

func booksTable(books []model.Book, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Title", Width: 30},
		{Title: "Author", Width: 20},
		{Title: "Genre", Width: 16},
		{Title: "Year", Width: 7},
	}
	rows := make([]table.Row, len(books))
	for i, b := range books {
		rows[i] = table.Row{strconv.Itoa(i + 1), b.Title(), b.Author(), b.Genre(), b.YearString()}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetStyles(tableStyles())
	return t
}

func msgf(level Level, format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...), Level: level}
}
