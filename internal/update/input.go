package update

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "enter":
		ok, cmd := m.addTask(m.input.Value())
		if ok {
			m.input.SetValue("")
		}
		return m, cmd
	case "tab", "esc":
		m.focusList()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
