package models

import "strings"

type ColumnID string

const (
	ColumnTodo       ColumnID = "todo"
	ColumnInProgress ColumnID = "in-progress"
	ColumnDone       ColumnID = "done"
)

type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
}

// Columns is the fixed board layout, in display order.
var Columns = []Column{
	{ID: ColumnTodo, Title: "Todo"},
	{ID: ColumnInProgress, Title: "In Progress"},
	{ID: ColumnDone, Title: "Done"},
}

func (c ColumnID) Valid() bool {
	_, ok := ColumnByID(c)
	return ok
}

// ColumnByID looks up one of the fixed columns.
func ColumnByID(id ColumnID) (Column, bool) {
	for _, c := range Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// ParseColumnID accepts a column identifier as typed by a user or client:
// either the ID or the title, case-insensitively, with spaces or underscores
// standing in for hyphens.
func ParseColumnID(s string) (ColumnID, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for _, c := range Columns {
		title := strings.ReplaceAll(strings.ToLower(c.Title), " ", "-")
		if norm == string(c.ID) || norm == title {
			return c.ID, true
		}
	}
	return "", false
}
