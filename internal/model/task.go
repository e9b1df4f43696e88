package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidID   = errors.New("model: invalid task id")
	ErrInvalidText = errors.New("model: task text is required")
)

type Task struct {
	ID        int64
	Text      string
	Completed bool
	CreatedAt time.Time
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, t.ID)
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrInvalidText
	}
	return nil
}

// Counts reports totals over the whole list, independent of any filter.
func Counts(tasks []Task) (total, active, completed int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return len(tasks), active, completed
}
