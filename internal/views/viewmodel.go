package views

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

const EmptyStateText = "No tasks here yet."

type ProjectInput struct {
	Tasks       []model.Task
	Filter      model.Filter
	Cursor      int
	Removing    map[int64]bool
	ListFocused bool
}

// RowData is one visible row. Position is 1-based within the filtered list
// and is what the command palette addresses.
type RowData struct {
	Position  int
	ID        int64
	Text      string
	Completed bool
	Removing  bool
	Selected  bool
}

type FilterTab struct {
	Filter model.Filter
	Label  string
	Key    string
	Active bool
}

// ViewModel is everything the renderer draws, derived from application state
// and nothing else.
type ViewModel struct {
	Rows                  []RowData
	EmptyVisible          bool
	Summary               string
	ClearCompletedVisible bool
	Filters               []FilterTab
}

// Project derives the view model. It does not modify in.Tasks.
func Project(in ProjectInput) ViewModel {
	filter := in.Filter
	if !filter.IsValid() {
		filter = model.FilterAll
	}
	visible := model.Apply(in.Tasks, filter)
	rows := make([]RowData, 0, len(visible))
	for i, t := range visible {
		rows = append(rows, RowData{
			Position:  i + 1,
			ID:        t.ID,
			Text:      EscapeText(t.Text),
			Completed: t.Completed,
			Removing:  in.Removing[t.ID],
			Selected:  in.ListFocused && i == in.Cursor,
		})
	}

	total, active, completed := model.Counts(in.Tasks)
	tabs := make([]FilterTab, 0, len(model.Filters))
	for i, f := range model.Filters {
		tabs = append(tabs, FilterTab{
			Filter: f,
			Label:  filterLabel(f),
			Key:    fmt.Sprintf("%d", i+1),
			Active: f == filter,
		})
	}

	return ViewModel{
		Rows:                  rows,
		EmptyVisible:          len(rows) == 0,
		Summary:               SummaryText(filter, total, active, completed),
		ClearCompletedVisible: completed > 0,
		Filters:               tabs,
	}
}

// SummaryText is the count line for the active filter. "all" counts the
// whole list; the other modes count only their own tasks.
func SummaryText(f model.Filter, total, active, completed int) string {
	switch f {
	case model.FilterActive:
		return fmt.Sprintf("%d active %s", active, plural(active))
	case model.FilterCompleted:
		return fmt.Sprintf("%d completed %s", completed, plural(completed))
	default:
		return fmt.Sprintf("%d %s", total, plural(total))
	}
}

func plural(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}

func filterLabel(f model.Filter) string {
	switch f {
	case model.FilterActive:
		return "Active"
	case model.FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// EscapeText makes user text safe to print on a terminal. Control characters
// (ESC, CR, LF, TAB and friends) are swapped for visible stand-ins so an
// embedded escape sequence shows up as text instead of being executed.
// Bidi controls are shown as \uXXXX so they cannot reorder the row.
func EscapeText(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 0x20:
			b.WriteRune(0x2400 + r)
		case r == 0x7f:
			b.WriteRune('␡')
		case r >= 0x80 && r <= 0x9f, isBidiControl(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsEscape(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) || isBidiControl(r) {
			return true
		}
	}
	return false
}

// isBidiControl reports the embedding, override and isolate controls that
// would reorder the rest of a row.
func isBidiControl(r rune) bool {
	switch {
	case r == 0x061c, r == 0x200e, r == 0x200f:
		return true
	case r >= 0x202a && r <= 0x202e:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	}
	return false
}
