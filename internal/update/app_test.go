package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/store"
)

type failingPersister struct {
	err   error
	calls int
}

func (f *failingPersister) Save(context.Context, []model.Task) error {
	f.calls++
	return f.err
}

func fixedClock() func() time.Time {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return base }
}

func newTestModel(t *testing.T, tasks []model.Task) (Model, *storage.MemorySlot, *storage.Adapter) {
	t.Helper()
	slot := storage.NewMemorySlot()
	adapter := storage.NewAdapter(slot, storage.DefaultKey, nil)
	m := NewModel(store.New(tasks, store.WithClock(fixedClock())), Options{
		Persister: adapter,
		Clipboard: func(string) error { return nil },
	})
	return m, slot, adapter
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected update.Model, got %T", updated)
	}
	return next, cmd
}

func typeAndSubmit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = send(t, m, runes(text))
	return send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	if m.Filter != model.FilterAll {
		t.Fatalf("expected filter all, got %q", m.Filter)
	}
	if m.Focus != FocusInput {
		t.Fatalf("expected input focus, got %q", m.Focus)
	}
	if len(m.Tasks()) != 0 {
		t.Fatalf("expected empty list, got %d", len(m.Tasks()))
	}
	if m.inputErrorFlash != defaultInputErrorFlash || m.removeTransition != defaultRemoveTransition {
		t.Fatalf("unexpected durations %v %v", m.inputErrorFlash, m.removeTransition)
	}
}

func TestSubmitAddsTaskAndWritesOnce(t *testing.T) {
	m, slot, adapter := newTestModel(t, nil)
	m, _ = typeAndSubmit(t, m, "  Buy milk  ")

	tasks := m.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" || tasks[0].Completed {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	if m.InputValue() != "" {
		t.Fatalf("expected input cleared, got %q", m.InputValue())
	}
	if slot.Writes() != 1 {
		t.Fatalf("expected one write, got %d", slot.Writes())
	}
	reloaded := adapter.Load(context.Background())
	if len(reloaded) != 1 || reloaded[0].ID != tasks[0].ID {
		t.Fatalf("expected persisted task, got %+v", reloaded)
	}
}

func TestSubmitPrependsNewestFirst(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = typeAndSubmit(t, m, "first")
	m, _ = typeAndSubmit(t, m, "second")

	tasks := m.Tasks()
	if len(tasks) != 2 || tasks[0].Text != "second" || tasks[1].Text != "first" {
		t.Fatalf("unexpected order %+v", tasks)
	}
	if tasks[0].ID <= tasks[1].ID {
		t.Fatalf("expected increasing ids, got %d then %d", tasks[1].ID, tasks[0].ID)
	}
}

func TestBlankSubmitFlashesAndKeepsInput(t *testing.T) {
	m, slot, _ := newTestModel(t, nil)
	m, cmd := typeAndSubmit(t, m, "   ")
	if cmd == nil {
		t.Fatalf("expected flash tick command")
	}
	if !m.InputError {
		t.Fatalf("expected input error flag")
	}
	if m.InputValue() != "   " {
		t.Fatalf("expected input kept as typed, got %q", m.InputValue())
	}
	if len(m.Tasks()) != 0 || slot.Writes() != 0 {
		t.Fatalf("expected no task and no write, got %d tasks %d writes", len(m.Tasks()), slot.Writes())
	}
	if m.shakeOffset() != shakeOffsets[0] {
		t.Fatalf("expected first shake offset, got %d", m.shakeOffset())
	}

	for frame := 1; frame < len(shakeOffsets); frame++ {
		m, cmd = send(t, m, InputFlashMsg{Seq: m.flashSeq, Frame: frame})
		if cmd == nil || !m.InputError {
			t.Fatalf("expected flash to continue at frame %d", frame)
		}
	}
	m, cmd = send(t, m, InputFlashMsg{Seq: m.flashSeq, Frame: len(shakeOffsets)})
	if cmd != nil || m.InputError {
		t.Fatalf("expected flash cleared after last frame")
	}
}

func TestStaleFlashFrameIsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.flashSeq != 2 {
		t.Fatalf("expected two flashes, got %d", m.flashSeq)
	}

	m, cmd := send(t, m, InputFlashMsg{Seq: 1, Frame: len(shakeOffsets)})
	if cmd != nil || !m.InputError {
		t.Fatalf("expected stale frame to leave the newer flash running")
	}
}

func TestTypingQInInputDoesNotQuit(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = send(t, m, runes("q"))
	if m.Quitting {
		t.Fatalf("expected q typed into input, not quit")
	}
	if m.InputValue() != "q" {
		t.Fatalf("expected input q, got %q", m.InputValue())
	}
}

func TestToggleFromListWritesOnce(t *testing.T) {
	m, slot, _ := newTestModel(t, nil)
	m, _ = typeAndSubmit(t, m, "Buy milk")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focus != FocusList {
		t.Fatalf("expected list focus, got %q", m.Focus)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.Tasks()[0].Completed {
		t.Fatalf("expected task completed")
	}
	if slot.Writes() != 2 {
		t.Fatalf("expected add plus toggle writes, got %d", slot.Writes())
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Tasks()[0].Completed {
		t.Fatalf("expected toggle to flip back")
	}
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	m, slot, _ := newTestModel(t, nil)
	m, _ = send(t, m, ToggleTaskMsg{ID: 42})
	if slot.Writes() != 0 || len(m.Tasks()) != 0 {
		t.Fatalf("expected no write for unknown id")
	}
}

func TestDeletePlaysTransitionBeforeRemoving(t *testing.T) {
	m, slot, _ := newTestModel(t, []model.Task{{ID: 1, Text: "Walk dog"}})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, cmd := send(t, m, runes("d"))
	if cmd == nil {
		t.Fatalf("expected removal tick")
	}
	if !m.Removing[1] || len(m.Tasks()) != 1 {
		t.Fatalf("expected row marked removing and still present")
	}
	if slot.Writes() != 0 {
		t.Fatalf("expected no write before transition, got %d", slot.Writes())
	}
	if !strings.Contains(m.View(), "Walk dog") {
		t.Fatalf("expected removing row to stay visible")
	}

	m, cmd = send(t, m, runes("d"))
	if cmd != nil {
		t.Fatalf("expected second delete to schedule nothing")
	}

	m, _ = send(t, m, RemoveTaskMsg{ID: 1})
	if len(m.Tasks()) != 0 || m.Removing[1] {
		t.Fatalf("expected task removed")
	}
	if slot.Writes() != 1 {
		t.Fatalf("expected one write after removal, got %d", slot.Writes())
	}

	m, _ = send(t, m, RemoveTaskMsg{ID: 1})
	if slot.Writes() != 1 {
		t.Fatalf("expected repeated removal to skip writing")
	}
}

func TestFilterKeysDoNotPersist(t *testing.T) {
	m, slot, _ := newTestModel(t, []model.Task{
		{ID: 2, Text: "Walk dog"},
		{ID: 1, Text: "Buy milk", Completed: true},
	})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = send(t, m, runes("3"))
	if m.Filter != model.FilterCompleted {
		t.Fatalf("expected completed filter, got %q", m.Filter)
	}
	if !strings.Contains(m.View(), "1 completed task") {
		t.Fatalf("expected completed summary in view:\n%s", m.View())
	}

	m, _ = send(t, m, runes("f"))
	if m.Filter != model.FilterAll {
		t.Fatalf("expected cycle back to all, got %q", m.Filter)
	}
	m, _ = send(t, m, SetFilterMsg{Filter: model.Filter("bogus")})
	if m.Filter != model.FilterAll {
		t.Fatalf("expected invalid filter ignored, got %q", m.Filter)
	}
	if slot.Writes() != 0 {
		t.Fatalf("expected filter changes not persisted, got %d writes", slot.Writes())
	}
}

func TestClearCompleted(t *testing.T) {
	m, slot, _ := newTestModel(t, []model.Task{{ID: 1, Text: "Walk dog"}})
	m, _ = send(t, m, ClearCompletedMsg{})
	if slot.Writes() != 0 {
		t.Fatalf("expected no write without completed tasks")
	}

	m, _ = send(t, m, ToggleTaskMsg{ID: 1})
	m, _ = send(t, m, ClearCompletedMsg{})
	if len(m.Tasks()) != 0 {
		t.Fatalf("expected completed task cleared, got %+v", m.Tasks())
	}
	if slot.Writes() != 2 {
		t.Fatalf("expected toggle and clear writes, got %d", slot.Writes())
	}
}

func TestScenarioAddToggleFilterClear(t *testing.T) {
	m, _, adapter := newTestModel(t, nil)
	m, _ = typeAndSubmit(t, m, "Buy milk")
	m, _ = typeAndSubmit(t, m, "Walk dog")
	if !strings.Contains(m.View(), "2 tasks") {
		t.Fatalf("expected 2 tasks summary:\n%s", m.View())
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, runes("j"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	milk := m.Tasks()[1]
	if milk.Text != "Buy milk" || !milk.Completed {
		t.Fatalf("expected Buy milk completed, got %+v", milk)
	}

	m, _ = send(t, m, runes("2"))
	view := m.View()
	if !strings.Contains(view, "1 active task") || strings.Contains(view, "Buy milk") {
		t.Fatalf("expected only Walk dog in active view:\n%s", view)
	}

	m, _ = send(t, m, runes("C"))
	m, _ = send(t, m, runes("1"))
	if !strings.Contains(m.View(), "1 task") || strings.Contains(m.View(), "Buy milk") {
		t.Fatalf("expected Buy milk cleared:\n%s", m.View())
	}

	reloaded := adapter.Load(context.Background())
	if len(reloaded) != 1 || reloaded[0].Text != "Walk dog" {
		t.Fatalf("expected Walk dog persisted, got %+v", reloaded)
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	p := &failingPersister{err: errors.New("quota exceeded")}
	m := NewModel(store.New(nil), Options{Persister: p})
	m, _ = typeAndSubmit(t, m, "Buy milk")

	if len(m.Tasks()) != 1 {
		t.Fatalf("expected task kept in memory")
	}
	if p.calls != 1 {
		t.Fatalf("expected one save attempt, got %d", p.calls)
	}
	if m.LastError == nil || !m.Status.IsError || !strings.Contains(m.Status.Text, "quota exceeded") {
		t.Fatalf("expected save error surfaced, got %+v", m.Status)
	}
}

func TestViewEscapesTaskText(t *testing.T) {
	m, _, _ := newTestModel(t, []model.Task{{ID: 1, Text: "<b>bold</b>\x1b[31m"}})
	view := m.View()
	if strings.Contains(view, "\x1b[31m") {
		t.Fatalf("expected control sequence escaped")
	}
	if !strings.Contains(view, "<b>bold</b>") {
		t.Fatalf("expected text shown literally:\n%s", view)
	}
}

func TestEmptyStateShown(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	if !strings.Contains(m.View(), "No tasks here yet.") {
		t.Fatalf("expected empty state:\n%s", m.View())
	}
}

func TestPaletteAddAndRemove(t *testing.T) {
	m, slot, _ := newTestModel(t, nil)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = send(t, m, runes("/"))
	if !m.Palette.Active {
		t.Fatalf("expected palette active")
	}
	m, _ = send(t, m, runes("add Walk dog"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Palette.Active {
		t.Fatalf("expected palette closed after enter")
	}
	if len(m.Tasks()) != 1 || m.Tasks()[0].Text != "Walk dog" {
		t.Fatalf("expected task added from palette, got %+v", m.Tasks())
	}

	m, _ = send(t, m, runes("/"))
	m, _ = send(t, m, runes("rm 1"))
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.Removing[m.Tasks()[0].ID] {
		t.Fatalf("expected palette rm to start removal")
	}
	if slot.Writes() != 1 {
		t.Fatalf("expected only the add write so far, got %d", slot.Writes())
	}

	m, _ = send(t, m, runes("/"))
	m, _ = send(t, m, runes("rm 9"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError {
		t.Fatalf("expected error for missing row")
	}
}

func TestYankCopiesSelectedText(t *testing.T) {
	var copied string
	m := NewModel(store.New([]model.Task{{ID: 1, Text: "Buy milk"}}), Options{
		Clipboard: func(s string) error {
			copied = s
			return nil
		},
	})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, runes("y"))
	if copied != "Buy milk" {
		t.Fatalf("expected Buy milk copied, got %q", copied)
	}
}

func TestHelpToggleAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, runes("?"))
	if !m.HelpVisible || m.helpText == "" {
		t.Fatalf("expected help rendered")
	}
	m, _ = send(t, m, runes("?"))
	if m.HelpVisible {
		t.Fatalf("expected help hidden")
	}

	m, cmd := send(t, m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestStatusMessages(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status %+v", m.Status)
	}
	m, _ = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected status cleared")
	}
}
