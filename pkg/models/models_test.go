package models

import (
	"testing"
	"time"
)

func TestColumnByID(t *testing.T) {
	c, ok := ColumnByID(ColumnInProgress)
	if !ok || c.Title != "In Progress" {
		t.Errorf("unexpected column %+v (ok=%v)", c, ok)
	}
	if _, ok := ColumnByID("backlog"); ok {
		t.Error("expected backlog to be unknown")
	}
	if ColumnID("").Valid() {
		t.Error("expected empty column id to be invalid")
	}
}

func TestParseColumnID(t *testing.T) {
	cases := map[string]ColumnID{
		"todo":        ColumnTodo,
		"Todo":        ColumnTodo,
		"in-progress": ColumnInProgress,
		"In Progress": ColumnInProgress,
		"in_progress": ColumnInProgress,
		" done ":      ColumnDone,
	}
	for in, want := range cases {
		got, ok := ParseColumnID(in)
		if !ok || got != want {
			t.Errorf("ParseColumnID(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}

	for _, in := range []string{"", "doing", "todo!"} {
		if _, ok := ParseColumnID(in); ok {
			t.Errorf("expected %q to be rejected", in)
		}
	}
}

func TestTaskCreatedTime(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 11, 12, 345000000, time.FixedZone("CET", 3600))
	task := Task{CreatedAt: Timestamp(now)}
	if task.CreatedAt != "2025-03-04T09:11:12.345Z" {
		t.Errorf("unexpected timestamp %q", task.CreatedAt)
	}
	got, ok := task.CreatedTime()
	if !ok || !got.Equal(now) {
		t.Errorf("CreatedTime() = %v, %v", got, ok)
	}

	if _, ok := (Task{CreatedAt: "yesterday"}).CreatedTime(); ok {
		t.Error("expected unparsable timestamp to report false")
	}
}
