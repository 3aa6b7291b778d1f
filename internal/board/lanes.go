package board

import "github.com/ldi/kanban/pkg/models"

// Lane is a column together with its tasks in board order.
type Lane struct {
	Column models.Column `json:"column"`
	Tasks  []models.Task `json:"tasks"`
}

// GroupByColumn splits tasks into lanes. All columns are always present, in
// display order, and tasks keep their relative sequence order.
func GroupByColumn(tasks []models.Task) []Lane {
	lanes := make([]Lane, len(models.Columns))
	index := make(map[models.ColumnID]int, len(models.Columns))
	for i, c := range models.Columns {
		lanes[i] = Lane{Column: c, Tasks: []models.Task{}}
		index[c.ID] = i
	}
	for _, t := range tasks {
		i, ok := index[t.ColumnID]
		if !ok {
			continue
		}
		lanes[i].Tasks = append(lanes[i].Tasks, t)
	}
	return lanes
}
