package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/handiism/book-library/internal/catalog"
	"github.com/handiism/book-library/internal/model"
)

// Level indicates the severity of a shell message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) prefix() string {
	switch l {
	case LevelError:
		return "❌ "
	case LevelWarning:
		return "⚠️  "
	case LevelSuccess:
		return "✅ "
	default:
		return "ℹ️  "
	}
}

// printer writes styled shell output. Styles come from a renderer bound to
// the output, so colour is dropped when it is not a terminal.
type printer struct {
	out io.Writer

	title   lipgloss.Style
	dim     lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	error   lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:     out,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#6C757D")),
		info:    r.NewStyle().Foreground(lipgloss.Color("#A8DADC")),
		success: r.NewStyle().Foreground(lipgloss.Color("#95E1A3")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		error:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

func (p *printer) style(level Level) lipgloss.Style {
	switch level {
	case LevelSuccess:
		return p.success
	case LevelWarning:
		return p.warning
	case LevelError:
		return p.error
	default:
		return p.info
	}
}

func (p *printer) message(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(p.out, p.style(level).Render(level.prefix()+msg))
}

func (p *printer) println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *printer) prompt(s string) {
	fmt.Fprint(p.out, s)
}

func (p *printer) heading(s string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.title.Render("--- "+strings.ToUpper(s)+" ---"))
}

func (p *printer) banner() {
	fmt.Fprintln(p.out, p.title.Render("📚 Book Library"))
	fmt.Fprintln(p.out, p.dim.Render(strings.Repeat("━", 40)))
}

func (p *printer) menu(title string, options []string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.dim.Render(menuRule))
	fmt.Fprintln(p.out, p.title.Render("   "+title))
	fmt.Fprintln(p.out, p.dim.Render(menuRule))
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintln(p.out, p.dim.Render(menuRule))
}

// books renders books as a table, one row per book.
func (p *printer) books(books []model.Book) {
	fmt.Fprintln(p.out, renderBooks(books))
}

// shelves renders every genre as a separated row group of one table.
func (p *printer) shelves(shelves []catalog.Shelf) {
	groups := make([][]model.Book, len(shelves))
	for i, s := range shelves {
		groups[i] = s.Books
	}
	fmt.Fprintln(p.out, renderBooks(groups...))
}

func renderBooks(groups ...[]model.Book) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Author", "Genre", "Year"})
	n := 0
	for i, books := range groups {
		if i > 0 {
			tw.AppendSeparator()
		}
		for _, b := range books {
			n++
			tw.AppendRow(table.Row{n, b.Title(), b.Author(), b.Genre(), b.YearString()})
		}
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
