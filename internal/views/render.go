package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	defaultWidth = 60
	minRowWidth  = 16
)

type AppData struct {
	Header      string
	View        ViewModel
	InputView   string
	InputError  bool
	ShakeOffset int
	ListFocused bool
	StatusLine  string
	StatusError bool
	Palette     string
	Help        string
	Footer      string
	Width       int
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	inputStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	inputFocusStyle  = inputStyle.BorderForeground(lipgloss.Color("12"))
	inputErrorStyle  = inputStyle.BorderForeground(lipgloss.Color("9"))
	tabStyle         = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	tabActiveStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	rowStyle         = lipgloss.NewStyle()
	rowDoneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	rowRemovingStyle = lipgloss.NewStyle().Faint(true)
	rowSelectedStyle = lipgloss.NewStyle().Bold(true)
	emptyStyle       = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	summaryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	clearStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderApp draws a full frame. Nothing is carried over from the previous
// frame.
func RenderApp(data AppData) string {
	width := data.Width
	if width <= 0 {
		width = defaultWidth
	}

	lines := []string{headerStyle.Render(data.Header)}
	lines = append(lines, renderInput(data))
	lines = append(lines, renderTabs(data.View.Filters))
	lines = append(lines, renderRows(data.View, width)...)
	lines = append(lines, renderSummary(data.View))

	if data.Palette != "" {
		lines = append(lines, data.Palette)
	}
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Help != "" {
		lines = append(lines, panelStyle.Render(data.Help))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderInput(data AppData) string {
	style := inputStyle
	switch {
	case data.InputError:
		style = inputErrorStyle
	case !data.ListFocused:
		style = inputFocusStyle
	}
	return style.MarginLeft(data.ShakeOffset).Render(data.InputView)
}

func renderTabs(tabs []FilterTab) string {
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := fmt.Sprintf("%s %s", tab.Key, tab.Label)
		if tab.Active {
			parts = append(parts, tabActiveStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderRows(vm ViewModel, width int) []string {
	if vm.EmptyVisible {
		return []string{emptyStyle.Render(EmptyStateText)}
	}
	textWidth := width - 10
	if textWidth < minRowWidth {
		textWidth = minRowWidth
	}
	out := make([]string, 0, len(vm.Rows))
	for _, row := range vm.Rows {
		out = append(out, renderRow(row, textWidth))
	}
	return out
}

func renderRow(row RowData, textWidth int) string {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	text := ansi.Truncate(row.Text, textWidth, "…")
	style := rowStyle
	if row.Completed {
		style = rowDoneStyle
	}
	if row.Removing {
		style = rowRemovingStyle
	}
	line := fmt.Sprintf("%s %d. %s %s", cursor, row.Position, checkbox(row.Completed), style.Render(text))
	if row.Selected {
		return rowSelectedStyle.Render(line)
	}
	return line
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func renderSummary(vm ViewModel) string {
	summary := summaryStyle.Render(vm.Summary)
	if vm.ClearCompletedVisible {
		summary += "  " + clearStyle.Render("[C] clear completed")
	}
	return summary
}

// RenderPlain is the unstyled listing used outside the TUI. Each row carries
// its id so it can be passed back to toggle or rm.
func RenderPlain(vm ViewModel) string {
	var b strings.Builder
	if vm.EmptyVisible {
		b.WriteString(EmptyStateText + "\n")
	}
	for _, row := range vm.Rows {
		b.WriteString(fmt.Sprintf("%s %d  %s\n", checkbox(row.Completed), row.ID, row.Text))
	}
	b.WriteString(vm.Summary)
	if vm.ClearCompletedVisible {
		b.WriteString(" (completed tasks can be cleared)")
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
