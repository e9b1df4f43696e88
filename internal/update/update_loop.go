package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/views"
)

const appTitle = "todos"

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Focus == FocusInput {
			return m.handleInputKey(typed)
		}
		return m.handleListKey(typed)
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.helpModel.Width = typed.Width
		if w := typed.Width - 8; w > 10 {
			m.input.Width = w
			m.commandInput.Width = w
		}
		return m, nil
	case InputFlashMsg:
		cmd := m.onInputFlash(typed)
		return m, cmd
	case AddTaskMsg:
		_, cmd := m.addTask(typed.Text)
		return m, cmd
	case ToggleTaskMsg:
		m.toggleTask(typed.ID)
		return m, nil
	case DeleteTaskMsg:
		cmd := m.deleteTask(typed.ID)
		return m, cmd
	case RemoveTaskMsg:
		m.removeTask(typed.ID)
		return m, nil
	case SetFilterMsg:
		m.setFilter(typed.Filter)
		return m, nil
	case ClearCompletedMsg:
		m.clearCompleted()
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	vm := views.Project(views.ProjectInput{
		Tasks:       m.tasks.Tasks(),
		Filter:      m.Filter,
		Cursor:      m.Cursor,
		Removing:    m.Removing,
		ListFocused: m.Focus == FocusList,
	})
	data := views.AppData{
		Header:      appTitle,
		View:        vm,
		InputView:   m.input.View(),
		InputError:  m.InputError,
		ShakeOffset: m.shakeOffset(),
		ListFocused: m.Focus == FocusList,
		StatusLine:  m.Status.Text,
		StatusError: m.Status.IsError,
		Palette:     views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value()),
		Footer:      m.footerView(),
		Width:       m.width,
	}
	if m.HelpVisible {
		data.Help = m.helpText
	}
	return views.RenderApp(data)
}
