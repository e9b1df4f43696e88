package update

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
)

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
	case key.Matches(msg, m.keys.Palette):
		return m.openPalette(), nil
	case key.Matches(msg, m.keys.EditInput):
		m.focusInput()
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selectedTask(); ok {
			m.toggleTask(task.ID)
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selectedTask(); ok {
			cmd := m.deleteTask(task.ID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, m.keys.FilterDone):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.CycleFilter):
		m.setFilter(m.Filter.Next())
	case key.Matches(msg, m.keys.ClearCompleted):
		m.clearCompleted()
	case key.Matches(msg, m.keys.Yank):
		m.yankSelected()
	}
	return m, nil
}
