package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/pkg/models"
)

var testItems = []MenuItem{
	{Name: "tui", Description: "Open the interactive board"},
	{Name: "list", Description: "List tasks grouped by column"},
	{Name: "web", Description: "Serve the board over HTTP"},
}

func pressMenu(m MenuModel, msg tea.KeyMsg) (MenuModel, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(MenuModel), cmd
}

func TestMenuCursorWraps(t *testing.T) {
	m := NewMenuModel(testItems, nil)

	m, _ = pressMenu(m, keyRunes("k"))
	if m.cursor != 2 {
		t.Errorf("expected cursor to wrap to 2, got %d", m.cursor)
	}
	m, _ = pressMenu(m, keyRunes("j"))
	if m.cursor != 0 {
		t.Errorf("expected cursor to wrap to 0, got %d", m.cursor)
	}
	m, _ = pressMenu(m, keyRunes("G"))
	if m.cursor != 2 {
		t.Errorf("expected cursor at the end, got %d", m.cursor)
	}
	m, _ = pressMenu(m, keyRunes("g"))
	if m.cursor != 0 {
		t.Errorf("expected cursor at the start, got %d", m.cursor)
	}
}

func TestMenuEnterSelects(t *testing.T) {
	m := NewMenuModel(testItems, nil)
	m, _ = pressMenu(m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := pressMenu(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != "list" {
		t.Errorf("expected list, got %q", m.Selected())
	}
	if cmd == nil {
		t.Error("expected quit command after enter")
	}
}

func TestMenuDigitSelects(t *testing.T) {
	m := NewMenuModel(testItems, nil)
	m, cmd := pressMenu(m, keyRunes("3"))
	if m.Selected() != "web" || cmd == nil {
		t.Errorf("expected web selected with quit, got %q", m.Selected())
	}

	m = NewMenuModel(testItems, nil)
	m, cmd = pressMenu(m, keyRunes("7"))
	if m.Selected() != "" || cmd != nil {
		t.Errorf("expected out-of-range digit to do nothing, got %q", m.Selected())
	}
}

func TestMenuQuit(t *testing.T) {
	m := NewMenuModel(testItems, nil)
	m, cmd := pressMenu(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.quitting || cmd == nil || m.Selected() != "" {
		t.Error("expected esc to quit without a selection")
	}
	if m.View() != "" {
		t.Error("expected empty view after quit")
	}

	empty := NewMenuModel(nil, nil)
	empty, _ = pressMenu(empty, keyRunes("q"))
	if !empty.quitting {
		t.Error("expected q to quit an empty menu")
	}
}

func TestMenuViewShowsBoardSummary(t *testing.T) {
	lanes := board.GroupByColumn([]models.Task{
		{ID: "a", Title: "a", ColumnID: models.ColumnTodo},
		{ID: "b", Title: "b", ColumnID: models.ColumnTodo},
		{ID: "c", Title: "c", ColumnID: models.ColumnDone},
	})
	m := NewMenuModel(testItems, lanes)

	if got := m.Summary(); got != "3 tasks: Todo 2 · In Progress 0 · Done 1" {
		t.Errorf("unexpected summary %q", got)
	}

	view := m.View()
	for _, want := range []string{"3 tasks: Todo 2", "> 1. tui", "Open the interactive board", "3. web"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}

	if NewMenuModel(testItems, nil).Summary() != "" {
		t.Error("expected no summary without a board")
	}
}
