package storage

import "encoding/json"

// taskRecord is the persisted shape of one task. Ids are JSON numbers and
// createdAt is an ISO-8601 string, matching lists written by earlier
// versions of the app.
type taskRecord struct {
	ID        json.Number `json:"id"`
	Text      string      `json:"text"`
	Completed bool        `json:"completed"`
	CreatedAt string      `json:"createdAt"`
}
