package models

import "time"

// TimestampLayout is the format used for newly created timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ColumnID    ColumnID `json:"columnId"`
	CreatedAt   string   `json:"createdAt"`
}

// CreatedTime parses CreatedAt. Stored timestamps are kept verbatim, so
// hand-edited values may not parse.
func (t Task) CreatedTime() (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339Nano, t.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// BoardState is the persisted shape of the board: the ordered task list.
type BoardState struct {
	Tasks []Task `json:"tasks"`
}

// Timestamp formats now the way new tasks record it.
func Timestamp(now time.Time) string {
	return now.UTC().Format(TimestampLayout)
}
