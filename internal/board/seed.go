package board

import (
	"time"

	"github.com/ldi/kanban/pkg/models"
)

var starterTasks = []models.Task{
	{
		Title:       "Explore Universe",
		Description: "Read about new space missions.",
		ColumnID:    models.ColumnTodo,
	},
	{
		Title:       "Build muscles",
		Description: "Stick to the weekly workout plan.",
		ColumnID:    models.ColumnInProgress,
	},
	{
		Title:       "Deploy app",
		Description: "Ship the latest release to production.",
		ColumnID:    models.ColumnDone,
	},
}

// DefaultState returns the first-run board: one starter task per column.
func DefaultState(now time.Time, newID func() string) models.BoardState {
	if newID == nil {
		newID = NewID
	}
	tasks := make([]models.Task, 0, len(starterTasks))
	for _, t := range starterTasks {
		t.ID = newID()
		t.CreatedAt = models.Timestamp(now)
		tasks = append(tasks, t)
	}
	return models.BoardState{Tasks: tasks}
}
