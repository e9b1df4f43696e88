package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/store"
)

const (
	defaultInputErrorFlash  = 500 * time.Millisecond
	defaultRemoveTransition = 400 * time.Millisecond
	inputCharLimit          = 280
)

// shakeOffsets are the left margins, in cells, of the input box for each
// frame of the empty-input shake.
var shakeOffsets = []int{2, 0, 2, 0, 1, 0}

type Focus string

const (
	FocusInput Focus = "input"
	FocusList  Focus = "list"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Persister writes the whole task list. storage.Adapter implements it.
type Persister interface {
	Save(ctx context.Context, tasks []model.Task) error
}

type Options struct {
	Persister        Persister
	Logger           *slog.Logger
	InputErrorFlash  time.Duration
	RemoveTransition time.Duration
	Clipboard        func(string) error
}

type Model struct {
	Filter      model.Filter
	Focus       Focus
	Cursor      int
	Removing    map[int64]bool
	InputError  bool
	Status      StatusBar
	Palette     CommandPaletteState
	HelpVisible bool
	Quitting    bool
	LastError   error

	tasks            *store.Store
	persister        Persister
	logger           *slog.Logger
	copyText         func(string) error
	inputErrorFlash  time.Duration
	removeTransition time.Duration
	flashSeq         int
	shakeFrame       int
	width            int
	helpText         string
	keys             keyMap
	input            textinput.Model
	commandInput     textinput.Model
	helpModel        help.Model
}

// InputFlashMsg advances the empty-input shake. Seq identifies the flash
// that scheduled it; stale frames are ignored.
type InputFlashMsg struct {
	Seq   int
	Frame int
}

// RemoveTaskMsg fires once a row's removal transition has played.
type RemoveTaskMsg struct {
	ID int64
}

type AddTaskMsg struct {
	Text string
}

type ToggleTaskMsg struct {
	ID int64
}

type DeleteTaskMsg struct {
	ID int64
}

type SetFilterMsg struct {
	Filter model.Filter
}

type ClearCompletedMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func NewModel(tasks *store.Store, opts Options) Model {
	if tasks == nil {
		tasks = store.New(nil)
	}
	m := Model{
		Filter:           model.FilterAll,
		Focus:            FocusInput,
		Removing:         make(map[int64]bool),
		tasks:            tasks,
		persister:        opts.Persister,
		logger:           opts.Logger,
		copyText:         opts.Clipboard,
		inputErrorFlash:  opts.InputErrorFlash,
		removeTransition: opts.RemoveTransition,
		keys:             newKeyMap(),
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.copyText == nil {
		m.copyText = clipboard.WriteAll
	}
	if m.inputErrorFlash <= 0 {
		m.inputErrorFlash = defaultInputErrorFlash
	}
	if m.removeTransition <= 0 {
		m.removeTransition = defaultRemoveTransition
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.Placeholder = "What needs to be done?"
	m.input.Prompt = "> "
	m.input.CharLimit = inputCharLimit
	m.input.Width = 48
	m.input.Focus()

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add <text> | toggle <n> | rm <n> | filter <mode> | clear"
	m.commandInput.Prompt = "/"
	m.commandInput.Width = 48

	m.helpModel = help.New()
}

// Tasks returns a snapshot of the current list.
func (m Model) Tasks() []model.Task {
	return m.tasks.Tasks()
}

// InputValue is the text currently typed into the task input.
func (m Model) InputValue() string {
	return m.input.Value()
}

func (m Model) visibleTasks() []model.Task {
	return model.Apply(m.tasks.Tasks(), m.Filter)
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) focusInput() {
	m.Focus = FocusInput
	m.input.Focus()
}

func (m *Model) focusList() {
	m.Focus = FocusList
	m.input.Blur()
	m.clampCursor()
}
