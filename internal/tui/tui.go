// Package tui provides a Bubble Tea terminal user interface for the book library.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/book-library/internal/app"
	"github.com/handiism/book-library/internal/catalog"
)

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StateSubmenu
	StateForm
	StateBusy
	StateResult
)

// Level indicates the severity of a result message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Message is one line of a result screen.
type Message struct {
	Text  string
	Level Level
}

// ExitReport describes how the program ended.
type ExitReport struct {
	// Saved is true when the library was written on exit.
	Saved bool
	// Books is the number of books written.
	Books int
	// Err is the save error, if saving was attempted and failed.
	Err error
}

type action int

const (
	actionAdd action = iota
	actionRemove
	actionFind
	actionList
	actionEdit
	actionImport
	actionHelp
	actionExit
)

var menuItems = []string{
	"Add book",
	"Remove book",
	"Find book",
	"List books",
	"Edit book",
	"Import books",
	"Help",
	"Save and exit",
}

var submenus = map[action][]string{
	actionFind: {"By title", "By author"},
	actionList: {"All books", "By genre"},
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	ctx     context.Context
	session *app.Session
	lib     *catalog.Library

	state   State
	cursor  int
	subCur  int
	action  action
	status  []Message
	busyMsg string
	spinner spinner.Model

	// Form
	form    formKind
	inputs  []textinput.Model
	focused int
	formErr string

	// Result
	messages []Message
	table    table.Model
	hasTable bool
	text     string

	exit ExitReport

	width  int
	height int
}

// New creates a TUI model over session.
func New(ctx context.Context, session *app.Session) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	m := Model{
		ctx:     ctx,
		session: session,
		lib:     session.Library,
		state:   StateMenu,
		spinner: sp,
	}
	m.status = startupStatus(session)
	return m
}

func startupStatus(s *app.Session) []Message {
	if s.LoadErr != nil {
		return []Message{
			{Text: s.LoadErr.Error(), Level: LevelWarning},
			{Text: "The library will start empty.", Level: LevelWarning},
		}
	}
	msgs := []Message{{
		Text:  fmt.Sprintf("Loaded %d books from %s.", s.Startup.Loaded, s.Settings.LibraryPath),
		Level: LevelInfo,
	}}
	if s.Startup.Duplicates > 0 || s.Startup.Rejected > 0 {
		msgs = append(msgs, Message{
			Text:  fmt.Sprintf("Skipped %d duplicate and %d invalid entries.", s.Startup.Duplicates, s.Startup.Rejected),
			Level: LevelWarning,
		})
	}
	return msgs
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Exit returns the outcome recorded when the program quit.
func (m Model) Exit() ExitReport {
	return m.exit
}

// Message types
type (
	// importDoneMsg is sent when the import and the following save finish.
	importDoneMsg struct {
		result  catalog.ImportResult
		saved   int
		err     error
		saveErr error
	}

	// saveDoneMsg is sent when the exit save finishes.
	saveDoneMsg struct {
		books int
		err   error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.hasTable {
			m.table.SetHeight(m.tableHeight(len(m.table.Rows())))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateSubmenu:
			return m.updateSubmenu(msg)
		case StateForm:
			return m.updateForm(msg)
		case StateResult:
			return m.updateResult(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case importDoneMsg:
		m.showImport(msg)
		return m, nil

	case saveDoneMsg:
		m.exit = ExitReport{Saved: msg.err == nil, Books: msg.books, Err: msg.err}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(menuItems)) % len(menuItems)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(menuItems)
	case "enter":
		return m.choose(action(m.cursor))
	case "q":
		return m.choose(actionExit)
	default:
		if n, ok := digit(key, len(menuItems)); ok {
			m.cursor = n
			return m.choose(action(n))
		}
	}
	return m, nil
}

func (m Model) updateSubmenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := submenus[m.action]
	switch key := msg.String(); key {
	case "up", "k":
		m.subCur = (m.subCur - 1 + len(items)) % len(items)
	case "down", "j":
		m.subCur = (m.subCur + 1) % len(items)
	case "esc":
		m.state = StateMenu
	case "enter":
		return m.chooseSub(m.subCur)
	default:
		if n, ok := digit(key, len(items)); ok {
			m.subCur = n
			return m.chooseSub(n)
		}
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "q":
	default:
		if m.hasTable {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	m.state = StateMenu
	m.status = nil
	return m, nil
}

// choose starts a top-level menu action.
func (m Model) choose(a action) (tea.Model, tea.Cmd) {
	m.action = a
	m.status = nil
	switch a {
	case actionAdd:
		return m.openForm(formAdd)
	case actionRemove:
		return m.openForm(formRemove)
	case actionEdit:
		return m.openForm(formEdit)
	case actionFind, actionList:
		m.state = StateSubmenu
		m.subCur = 0
		return m, nil
	case actionImport:
		m.state = StateBusy
		m.busyMsg = "Importing books..."
		return m, tea.Batch(m.importCmd(), m.spinner.Tick)
	case actionHelp:
		m.showHelp()
		return m, nil
	case actionExit:
		m.state = StateBusy
		m.busyMsg = "Saving library..."
		return m, tea.Batch(m.saveCmd(), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) chooseSub(n int) (tea.Model, tea.Cmd) {
	switch {
	case m.action == actionFind && n == 0:
		return m.openForm(formFindTitle)
	case m.action == actionFind:
		return m.openForm(formFindAuthor)
	case m.action == actionList && n == 0:
		m.showAll()
		return m, nil
	default:
		return m.openForm(formListGenre)
	}
}

func (m Model) importCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		res, err := session.Import(ctx)
		if err != nil {
			return importDoneMsg{err: err}
		}
		n, saveErr := session.Save(ctx)
		return importDoneMsg{result: res, saved: n, saveErr: saveErr}
	}
}

func (m Model) saveCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		n, err := session.Save(ctx)
		return saveDoneMsg{books: n, err: err}
	}
}

// digit maps "1".."n" to a 0-based index.
func digit(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	i := int(key[0] - '1')
	return i, i < n
}

// Run starts the TUI application and returns how it ended.
func Run(ctx context.Context, session *app.Session) (ExitReport, error) {
	p := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ExitReport{}, ctx.Err()
		}
		return ExitReport{}, err
	}
	return final.(Model).Exit(), nil
}
