package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/todo/internal/views"
)

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	FilterAll      key.Binding
	FilterActive   key.Binding
	FilterDone     key.Binding
	CycleFilter    key.Binding
	ClearCompleted key.Binding
	Yank           key.Binding
	EditInput      key.Binding
	Palette        key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:         key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		FilterAll:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterActive:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterDone:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		CycleFilter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		ClearCompleted: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		Yank:           key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		EditInput:      key.NewBinding(key.WithKeys("i", "a", "tab", "enter"), key.WithHelp("i/tab", "new task")),
		Palette:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.CycleFilter, k.ClearCompleted, k.EditInput, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete, k.Yank},
		{k.FilterAll, k.FilterActive, k.FilterDone, k.CycleFilter, k.ClearCompleted},
		{k.EditInput, k.Palette, k.Help, k.Quit},
	}
}

func (m Model) footerView() string {
	if m.Focus == FocusInput {
		return "enter add | tab/esc list | ctrl+c quit"
	}
	return m.helpModel.View(m.keys)
}

// helpMarkdown lists every binding as a markdown table for the help panel.
func (m Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Keys\n\n")
	b.WriteString("| key | action |\n|---|---|\n")
	b.WriteString("| enter | add task (input) |\n")
	b.WriteString("| tab / esc | switch to the list (input) |\n")
	for _, group := range m.keys.FullHelp() {
		for _, kb := range group {
			h := kb.Help()
			b.WriteString(fmt.Sprintf("| %s | %s |\n", h.Key, h.Desc))
		}
	}
	b.WriteString("\n# Commands\n\n")
	b.WriteString("`/add <text>`, `/toggle <n>`, `/rm <n>`, `/filter all|active|completed`, `/clear`\n")
	return b.String()
}

func (m *Model) toggleHelp() {
	m.HelpVisible = !m.HelpVisible
	if m.HelpVisible {
		if m.helpText == "" {
			m.helpText = views.RenderMarkdown(m.helpMarkdown())
		}
		m.Status = StatusBar{Text: "help shown"}
		return
	}
	m.Status = StatusBar{Text: "help hidden"}
}
