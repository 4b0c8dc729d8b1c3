package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Bold(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#1A1A1A")).
		Background(lipgloss.Color("#F8B500"))
	return s
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📚 Book Library"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s • %d books", m.session.Settings.LibraryPath, m.lib.Len())))
	b.WriteString("\n\n")

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StateSubmenu:
		b.WriteString(m.viewSubmenu())
	case StateForm:
		b.WriteString(m.viewForm())
	case StateBusy:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render(m.busyMsg))
		b.WriteString("\n")
	case StateResult:
		b.WriteString(m.viewResult())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(renderList(menuItems, m.cursor))
	if len(m.status) > 0 {
		b.WriteString("\n")
		b.WriteString(renderMessages(m.status))
	}
	return b.String()
}

func (m Model) viewSubmenu() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render(menuItems[m.action]))
	b.WriteString("\n\n")
	b.WriteString(renderList(submenus[m.action], m.subCur))
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	spec := forms[m.form]

	b.WriteString(subtitleStyle.Render(spec.title))
	b.WriteString("\n\n")
	for i, f := range spec.fields {
		label := fmt.Sprintf("%-13s", f.label)
		if i == m.focused {
			label = cursorStyle.Render(label)
		} else {
			label = infoStyle.Render(label)
		}
		b.WriteString(label)
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if spec.fields[m.focused].published {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(yearSavedHint))
		b.WriteString("\n")
	}
	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.formErr))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewResult() string {
	var b strings.Builder
	b.WriteString(renderMessages(m.messages))
	if m.hasTable {
		b.WriteString("\n")
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	if m.text != "" {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(m.text))
		b.WriteString("\n")
	}
	return b.String()
}

func renderList(items []string, cursor int) string {
	var b strings.Builder
	for i, item := range items {
		line := fmt.Sprintf("%d. %s", i+1, item)
		if i == cursor {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderMessages(msgs []Message) string {
	var b strings.Builder

	for _, msg := range msgs {
		var style lipgloss.Style
		var prefix string
		switch msg.Level {
		case LevelError:
			style = errorStyle
			prefix = "✗"
		case LevelWarning:
			style = warningStyle
			prefix = "!"
		case LevelSuccess:
			style = successStyle
			prefix = "✓"
		default:
			style = infoStyle
			prefix = "›"
		}
		b.WriteString(style.Render(prefix + " " + msg.Text))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateMenu:
		return "↑/↓: move • enter or 1-8: select • q: save and exit • ctrl+c: quit without saving"
	case StateSubmenu:
		return "↑/↓: move • enter or 1-2: select • esc: back"
	case StateForm:
		return "tab/shift+tab: move • enter: next/submit • esc: cancel"
	case StateBusy:
		return "please wait"
	case StateResult:
		if m.hasTable {
			return "↑/↓: scroll • enter/esc: back to menu"
		}
		return "any key: back to menu"
	}
	return ""
}
