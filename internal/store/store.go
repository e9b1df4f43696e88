// Package store holds the in-memory task list. It owns ordering and id
// assignment; persistence and rendering are left to callers.
package store

import (
	"errors"
	"strings"
	"time"

	"github.com/sandeepkv93/todo/internal/model"
)

var ErrEmptyText = errors.New("store: task text is empty")

type Option func(*Store)

// WithClock overrides the clock used for ids and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is an ordered task list, newest first. Mutators report whether the
// list changed so callers can persist exactly once per effective change.
type Store struct {
	tasks []model.Task
	ids   *model.IDGenerator
	now   func() time.Time
}

// New copies tasks into a store. Later duplicates of an id are dropped.
func New(tasks []model.Task, opts ...Option) *Store {
	s := &Store{
		tasks: make([]model.Task, 0, len(tasks)),
		now:   time.Now,
	}
	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		s.tasks = append(s.tasks, t)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = model.NewIDGenerator(s.now)
	for _, t := range s.tasks {
		s.ids.Observe(t.ID)
	}
	return s
}

// Add inserts a new incomplete task at the front. Blank text is rejected
// with ErrEmptyText and leaves the list untouched. Invalid UTF-8 is replaced
// with U+FFFD so the stored text survives encoding unchanged.
func (s *Store) Add(text string) (model.Task, error) {
	trimmed := strings.TrimSpace(strings.ToValidUTF8(text, "\uFFFD"))
	if trimmed == "" {
		return model.Task{}, ErrEmptyText
	}
	task := model.Task{
		ID:        s.ids.Next(),
		Text:      trimmed,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	return task, nil
}

// Toggle flips completion for id. Unknown ids are ignored.
func (s *Store) Toggle(id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return true
}

// Remove deletes id. Unknown ids are ignored.
func (s *Store) Remove(id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// ClearCompleted drops every completed task and returns how many went.
func (s *Store) ClearCompleted() int {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	return removed
}

func (s *Store) Tasks() []model.Task {
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Get(id int64) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Counts() (total, active, completed int) {
	return model.Counts(s.tasks)
}

func (s *Store) HasCompleted() bool {
	for _, t := range s.tasks {
		if t.Completed {
			return true
		}
	}
	return false
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
