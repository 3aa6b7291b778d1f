package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/internal/store"
	"github.com/ldi/kanban/internal/ui"
	"github.com/ldi/kanban/pkg/models"
)

// execute runs the CLI in a fresh temp working directory shared by the
// calls of one test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("kanban %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func storedTasks(t *testing.T) []models.Task {
	t.Helper()
	out := mustExecute(t, "export")
	state, ok := board.Decode(strings.TrimSpace(out))
	if !ok {
		t.Fatalf("failed to decode export output: %s", out)
	}
	return state.Tasks
}

func TestInitSeedsBoard(t *testing.T) {
	dir := inTempDir(t)

	out := mustExecute(t, "init")
	if !strings.Contains(out, "Board ready with 3 tasks") {
		t.Errorf("unexpected init output: %s", out)
	}
	for _, name := range []string{".gitignore", "config.yaml", "kanban-board.json"} {
		if _, err := os.Stat(filepath.Join(dir, ".kanban", name)); err != nil {
			t.Errorf("expected .kanban/%s: %v", name, err)
		}
	}

	// Running init again keeps the existing board.
	mustExecute(t, "add", "Keep me")
	mustExecute(t, "init")
	if got := len(storedTasks(t)); got != 4 {
		t.Errorf("expected 4 tasks after re-init, got %d", got)
	}
}

func TestListGroupsByColumn(t *testing.T) {
	inTempDir(t)

	out := mustExecute(t, "list")
	for _, want := range []string{"Todo (1)", "In Progress (1)", "Done (1)", "Explore Universe", "Read about new space missions."} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = mustExecute(t, "list", "--column", "done")
	if !strings.Contains(out, "Deploy app") || strings.Contains(out, "Explore Universe") {
		t.Errorf("unexpected filtered output:\n%s", out)
	}

	if _, err := execute(t, "list", "--column", "backlog"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestListJSON(t *testing.T) {
	inTempDir(t)

	out := mustExecute(t, "list", "--json")
	var lanes []board.Lane
	if err := sonic.Unmarshal([]byte(out), &lanes); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if len(lanes) != 3 || lanes[1].Column.ID != models.ColumnInProgress {
		t.Errorf("unexpected lanes: %+v", lanes)
	}
}

func TestAddMoveDelete(t *testing.T) {
	inTempDir(t)

	out := mustExecute(t, "add", "Write docs", "for the CLI")
	if !strings.Contains(out, `Added "Write docs"`) {
		t.Errorf("unexpected add output: %s", out)
	}

	tasks := storedTasks(t)
	added := tasks[len(tasks)-1]
	if added.Title != "Write docs" || added.Description != "for the CLI" || added.ColumnID != models.ColumnTodo {
		t.Fatalf("unexpected added task: %+v", added)
	}

	out = mustExecute(t, "move", added.ID, "In Progress")
	if !strings.Contains(out, "Moved") {
		t.Errorf("unexpected move output: %s", out)
	}
	tasks = storedTasks(t)
	if last := tasks[len(tasks)-1]; last.ID != added.ID || last.ColumnID != models.ColumnInProgress {
		t.Errorf("expected moved task at the end in progress, got %+v", last)
	}

	out = mustExecute(t, "move", added.ID, "in-progress")
	if !strings.Contains(out, "already in In Progress") {
		t.Errorf("unexpected output for redundant move: %s", out)
	}

	mustExecute(t, "delete", added.ID)
	for _, task := range storedTasks(t) {
		if task.ID == added.ID {
			t.Error("expected task to be deleted")
		}
	}
}

func TestCommandErrors(t *testing.T) {
	inTempDir(t)

	tests := []struct {
		name string
		args []string
	}{
		{"blank title", []string{"add", "   "}},
		{"missing title", []string{"add"}},
		{"unknown column", []string{"move", "x", "archive"}},
		{"move unknown task", []string{"move", "missing", "done"}},
		{"delete unknown task", []string{"delete", "missing"}},
		{"unknown backend", []string{"--backend", "etcd", "list"}},
		{"missing config", []string{"--config", "nope.yaml", "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}

	if _, err := execute(t, "add", " "); !errors.Is(err, errEmptyTitle) {
		t.Errorf("expected errEmptyTitle, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	inTempDir(t)
	mustExecute(t, "add", "one more")

	out := mustExecute(t, "status")
	for _, want := range []string{"Backend:     file", "Storage Key: kanban-board", "Total Tasks: 4", "Todo:"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestExportToFile(t *testing.T) {
	dir := inTempDir(t)

	path := filepath.Join(dir, "out", "board.json")
	mustExecute(t, "export", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	state, ok := board.Decode(strings.TrimSpace(string(data)))
	if !ok || len(state.Tasks) != 3 {
		t.Errorf("unexpected export contents: %s", data)
	}
}

func TestBackendFlagAndEnv(t *testing.T) {
	dir := inTempDir(t)

	mustExecute(t, "--backend", "memory", "add", "ephemeral")
	if _, err := os.Stat(filepath.Join(dir, ".kanban", "kanban-board.json")); err == nil {
		t.Error("expected memory backend not to touch the file store")
	}

	t.Setenv("KANBAN_STORAGE_BACKEND", "sqlite")
	out := mustExecute(t, "status")
	if !strings.Contains(out, "Backend:     sqlite") {
		t.Errorf("expected sqlite backend from env:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".kanban", "kanban.db")); err != nil {
		t.Errorf("expected sqlite database: %v", err)
	}
}

func TestRootRunsMenuSelection(t *testing.T) {
	inTempDir(t)

	origMenu, origTerminal, origBoard := runMenu, isTerminal, runBoard
	t.Cleanup(func() {
		runMenu, isTerminal, runBoard = origMenu, origTerminal, origBoard
	})

	isTerminal = func() bool { return true }
	var gotItems []ui.MenuItem
	var gotLanes []board.Lane
	runMenu = func(items []ui.MenuItem, lanes []board.Lane) (string, error) {
		gotItems, gotLanes = items, lanes
		return "tui", nil
	}
	called := false
	runBoard = func(ctx context.Context, b ui.Board) error {
		called = true
		b.Init(ctx)
		if len(b.Lanes()) != 3 {
			t.Errorf("expected 3 lanes, got %d", len(b.Lanes()))
		}
		return nil
	}

	mustExecute(t)
	if !called {
		t.Error("expected menu selection to open the board")
	}
	if len(gotItems) == 0 || gotItems[0].Name != "tui" {
		t.Errorf("expected tui first in the menu, got %+v", gotItems)
	}
	for _, item := range gotItems {
		if item.Name == "mcp" || item.Name == "help" || item.Name == "completion" {
			t.Errorf("unexpected menu item %q", item.Name)
		}
		if item.Description == "" {
			t.Errorf("expected a description for %q", item.Name)
		}
	}
	if len(gotLanes) != 3 || len(gotLanes[0].Tasks) != 1 {
		t.Errorf("expected seeded lane summary, got %+v", gotLanes)
	}

	runMenu = func([]ui.MenuItem, []board.Lane) (string, error) { return "", nil }
	called = false
	mustExecute(t)
	if called {
		t.Error("expected no command when the menu is dismissed")
	}
}

func TestRootWithoutTerminalPrintsHelp(t *testing.T) {
	inTempDir(t)

	origTerminal := isTerminal
	t.Cleanup(func() { isTerminal = origTerminal })
	isTerminal = func() bool { return false }

	out := mustExecute(t)
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected help output, got %s", out)
	}
}

func TestAutoExportWritesImmediately(t *testing.T) {
	dir := inTempDir(t)

	logger, _ := logtest.NewNullLogger()
	a := &app{log: logger}
	m := board.NewManager(store.NewMemory(), board.WithLogger(logger))
	m.Init(context.Background())

	path := filepath.Join(dir, "copy", "board.json")
	a.autoExport(m, path)

	readCopy := func() models.BoardState {
		t.Helper()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected export file: %v", err)
		}
		state, ok := board.Decode(strings.TrimSpace(string(data)))
		if !ok {
			t.Fatalf("export does not decode: %s", data)
		}
		return state
	}

	if got := len(readCopy().Tasks); got != 3 {
		t.Errorf("expected 3 exported tasks before any change, got %d", got)
	}

	m.AddTask(context.Background(), "Exported", "")
	if got := len(readCopy().Tasks); got != 4 {
		t.Errorf("expected 4 exported tasks after a change, got %d", got)
	}
}
