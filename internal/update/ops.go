package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/store"
)

// addTask is the text-submission gesture. Blank text starts the error
// flash and reports false so the caller leaves the input as typed.
func (m *Model) addTask(text string) (bool, tea.Cmd) {
	task, err := m.tasks.Add(text)
	if err != nil {
		if errors.Is(err, store.ErrEmptyText) {
			return false, m.startInputFlash()
		}
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return false, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Text)}
	m.Cursor = 0
	m.persist("add")
	return true, nil
}

func (m *Model) toggleTask(id int64) {
	if !m.tasks.Toggle(id) {
		return
	}
	m.persist("toggle")
}

// deleteTask starts the removal transition for id. The store is only touched
// when RemoveTaskMsg arrives.
func (m *Model) deleteTask(id int64) tea.Cmd {
	if _, ok := m.tasks.Get(id); !ok {
		return nil
	}
	if m.Removing[id] {
		return nil
	}
	m.Removing[id] = true
	return tea.Tick(m.removeTransition, func(time.Time) tea.Msg { return RemoveTaskMsg{ID: id} })
}

func (m *Model) removeTask(id int64) {
	delete(m.Removing, id)
	if !m.tasks.Remove(id) {
		return
	}
	m.persist("remove")
	m.clampCursor()
}

func (m *Model) setFilter(f model.Filter) {
	if !f.IsValid() {
		return
	}
	m.Filter = f
	m.clampCursor()
	m.Status = StatusBar{Text: fmt.Sprintf("showing %s", f)}
}

func (m *Model) clearCompleted() {
	if !m.tasks.HasCompleted() {
		return
	}
	n := m.tasks.ClearCompleted()
	if n == 0 {
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("cleared %d completed %s", n, pluralTask(n))}
	m.clampCursor()
	m.persist("clear_completed")
}

func (m *Model) yankSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	if err := m.copyText(task.Text); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("copy failed: %v", err), IsError: true}
		return
	}
	m.Status = StatusBar{Text: "copied to clipboard"}
}

// persist writes the whole list once. A failed write is reported but the
// in-memory list stays authoritative for the rest of the session.
func (m *Model) persist(op string) {
	if m.persister == nil {
		return
	}
	if err := m.persister.Save(context.Background(), m.tasks.Tasks()); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("save failed: %v", err), IsError: true}
		m.logger.Error("persist tasks failed", "op", op, "err", err)
		return
	}
	m.logger.Debug("tasks persisted", "op", op, "tasks", m.tasks.Len())
}

func (m *Model) startInputFlash() tea.Cmd {
	m.flashSeq++
	m.InputError = true
	m.shakeFrame = 0
	return m.flashTick(m.flashSeq, 1)
}

func (m Model) flashTick(seq, frame int) tea.Cmd {
	step := m.inputErrorFlash / time.Duration(len(shakeOffsets))
	return tea.Tick(step, func(time.Time) tea.Msg { return InputFlashMsg{Seq: seq, Frame: frame} })
}

func (m *Model) onInputFlash(msg InputFlashMsg) tea.Cmd {
	if msg.Seq != m.flashSeq || !m.InputError {
		return nil
	}
	if msg.Frame >= len(shakeOffsets) {
		m.InputError = false
		m.shakeFrame = 0
		return nil
	}
	m.shakeFrame = msg.Frame
	return m.flashTick(msg.Seq, msg.Frame+1)
}

func (m Model) shakeOffset() int {
	if !m.InputError || m.shakeFrame < 0 || m.shakeFrame >= len(shakeOffsets) {
		return 0
	}
	return shakeOffsets[m.shakeFrame]
}

func pluralTask(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}
