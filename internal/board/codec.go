package board

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ldi/kanban/pkg/models"
)

// Encode serializes the board into its persisted JSON form.
func Encode(state models.BoardState) (string, error) {
	if state.Tasks == nil {
		state.Tasks = []models.Task{}
	}
	out, err := sonic.ConfigStd.MarshalToString(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode board: %w", err)
	}
	return out, nil
}

// Decode parses a persisted board. It reports false when there is nothing
// usable: empty input, invalid JSON, or no task list. Individual task records
// that are invalid are dropped rather than failing the whole payload.
func Decode(raw string) (models.BoardState, bool) {
	return decode(raw, time.Now)
}

func decode(raw string, now func() time.Time) (models.BoardState, bool) {
	if raw == "" {
		return models.BoardState{}, false
	}

	var doc any
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &doc); err != nil {
		return models.BoardState{}, false
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return models.BoardState{}, false
	}
	items, ok := obj["tasks"].([]any)
	if !ok {
		return models.BoardState{}, false
	}

	tasks := make([]models.Task, 0, len(items))
	for _, item := range items {
		if t, ok := decodeTask(item, now); ok {
			tasks = append(tasks, t)
		}
	}
	return models.BoardState{Tasks: tasks}, true
}

func decodeTask(item any, now func() time.Time) (models.Task, bool) {
	rec, ok := item.(map[string]any)
	if !ok {
		return models.Task{}, false
	}

	id, ok := rec["id"].(string)
	if !ok {
		return models.Task{}, false
	}
	title, ok := rec["title"].(string)
	if !ok {
		return models.Task{}, false
	}
	col, ok := rec["columnId"].(string)
	if !ok {
		return models.Task{}, false
	}
	columnID := models.ColumnID(col)
	if !columnID.Valid() {
		return models.Task{}, false
	}

	t := models.Task{
		ID:       id,
		Title:    title,
		ColumnID: columnID,
	}
	if desc, ok := rec["description"].(string); ok {
		t.Description = desc
	}
	if created, ok := rec["createdAt"].(string); ok {
		t.CreatedAt = created
	} else {
		t.CreatedAt = models.Timestamp(now())
	}
	return t, true
}
