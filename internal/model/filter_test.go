package model

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestParseFilter(t *testing.T) {
	cases := []struct {
		in   string
		want Filter
	}{
		{"all", FilterAll},
		{"Active", FilterActive},
		{"  COMPLETED ", FilterCompleted},
	}
	for _, tc := range cases {
		got, err := ParseFilter(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFilter("done"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got: %v", err)
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for i := 0; i < 3; i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []Filter{FilterAll, FilterActive, FilterCompleted, FilterAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle step %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestApplyDoesNotAliasInput(t *testing.T) {
	tasks := []Task{{ID: 1, Text: "a"}, {ID: 2, Text: "b", Completed: true}}
	out := Apply(tasks, FilterAll)
	out[0].Text = "changed"
	if tasks[0].Text != "a" {
		t.Fatalf("Apply result aliases its input: %#v", tasks)
	}
}

func taskListGenerator() *rapid.Generator[[]Task] {
	return rapid.Custom(func(t *rapid.T) []Task {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		out := make([]Task, n)
		for i := range out {
			out[i] = Task{
				ID:        int64(i + 1),
				Text:      rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "text"),
				Completed: rapid.Bool().Draw(t, "completed"),
			}
		}
		return out
	})
}

func TestApplySoundAndComplete(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := taskListGenerator().Draw(t, "tasks")
		f := rapid.SampledFrom(Filters).Draw(t, "filter")

		got := Apply(tasks, f)
		for _, task := range got {
			if !f.Matches(task) {
				t.Fatalf("task %d does not satisfy %s", task.ID, f)
			}
		}

		want := make([]int64, 0, len(tasks))
		for _, task := range tasks {
			if f.Matches(task) {
				want = append(want, task.ID)
			}
		}
		if len(want) != len(got) {
			t.Fatalf("filter %s returned %d tasks, want %d", f, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("filter %s order mismatch at %d: got %d want %d", f, i, got[i].ID, want[i])
			}
		}

		again := Apply(tasks, f)
		if len(again) != len(got) {
			t.Fatalf("filter %s is not deterministic", f)
		}
	})
}
