package model

import "time"

// IDGenerator hands out strictly increasing ids. Ids track the wall clock in
// Unix milliseconds so they stay comparable with lists written by older
// versions, but never repeat when several are requested within the same
// millisecond or when the clock steps backwards.
type IDGenerator struct {
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Observe raises the floor so future ids are greater than id.
func (g *IDGenerator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

func (g *IDGenerator) Next() int64 {
	next := g.now().UnixMilli()
	if next <= g.last {
		next = g.last + 1
	}
	g.last = next
	return next
}
