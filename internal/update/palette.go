package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/commands"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	m.Status = StatusBar{}

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			ok, flash := m.addTask(a.Text)
			if !ok {
				next = flash
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "task text is empty"}
			}
			return commands.Result{Message: fmt.Sprintf("added: %s", strings.TrimSpace(a.Text))}, nil
		},
		Toggle: func(r commands.RowArgs) (commands.Result, error) {
			id, err := m.rowID(r.Position)
			if err != nil {
				return commands.Result{}, err
			}
			m.toggleTask(id)
			return commands.Result{Message: fmt.Sprintf("toggled row %d", r.Position)}, nil
		},
		Remove: func(r commands.RowArgs) (commands.Result, error) {
			id, err := m.rowID(r.Position)
			if err != nil {
				return commands.Result{}, err
			}
			next = m.deleteTask(id)
			return commands.Result{Message: fmt.Sprintf("removing row %d", r.Position)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			m.setFilter(f.Filter)
			return commands.Result{Message: fmt.Sprintf("showing %s", f.Filter)}, nil
		},
		Clear: func() (commands.Result, error) {
			if !m.tasks.HasCompleted() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no completed tasks"}
			}
			m.clearCompleted()
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, next
	}
	if !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, next
}

// rowID resolves a 1-based position in the visible list.
func (m Model) rowID(pos int) (int64, error) {
	visible := m.visibleTasks()
	if pos < 1 || pos > len(visible) {
		return 0, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no row %d", pos)}
	}
	return visible[pos-1].ID, nil
}
