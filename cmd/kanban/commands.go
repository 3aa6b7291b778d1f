package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/internal/config"
	"github.com/ldi/kanban/pkg/models"
)

var errEmptyTitle = errors.New("title cannot be empty")

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a starter config and seed the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			dir := a.cfg.Storage.Dir
			if dir == "" {
				dir = ".kanban"
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create %s directory: %w", dir, err)
			}
			fmt.Fprintf(out, "✓ Created %s/ directory\n", dir)

			gitignore := filepath.Join(dir, ".gitignore")
			if err := os.WriteFile(gitignore, []byte("kanban.db*\nkanban.log\n"), 0644); err != nil {
				return fmt.Errorf("failed to create .gitignore: %w", err)
			}
			fmt.Fprintf(out, "✓ Created %s\n", gitignore)

			configPath := a.opts.configPath
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
				if err := config.WriteDefault(configPath); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Fprintf(out, "✓ Wrote %s\n", configPath)
			}

			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintf(out, "✓ Board ready with %d tasks (%s backend)\n", len(m.Tasks()), a.backendName())
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var column string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter models.ColumnID
			if column != "" {
				id, ok := models.ParseColumnID(column)
				if !ok {
					return unknownColumn(column)
				}
				filter = id
			}

			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			lanes := m.Lanes()
			if filter != "" {
				for _, l := range lanes {
					if l.Column.ID == filter {
						lanes = []board.Lane{l}
						break
					}
				}
			}

			if asJSON {
				data, err := sonic.ConfigStd.MarshalIndent(lanes, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode lanes: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printLanes(cmd.OutOrStdout(), lanes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "Only show this column (todo, in-progress, done)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printLanes(w io.Writer, lanes []board.Lane) {
	for i, l := range lanes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", l.Column.Title, len(l.Tasks))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		if len(l.Tasks) == 0 {
			fmt.Fprintln(w, "  No tasks")
			continue
		}
		for _, t := range l.Tasks {
			fmt.Fprintf(w, "  %-38s %s\n", t.ID, t.Title)
			if t.Description != "" {
				fmt.Fprintf(w, "  %-38s %s\n", "", t.Description)
			}
		}
	}
}

func addCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> [description]",
		Short: "Add a task to the Todo column",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			if strings.TrimSpace(title) == "" {
				return errEmptyTitle
			}
			var description string
			if len(args) > 1 {
				description = args[1]
			}

			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			added, ok := m.CreateTask(cmd.Context(), title, description)
			if !ok {
				return errEmptyTitle
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %q (%s)\n", added.Title, added.ID)
			return nil
		},
	}
}

func moveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := models.ParseColumnID(args[1])
			if !ok {
				return unknownColumn(args[1])
			}

			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			task, ok := m.Task(args[0])
			if !ok {
				return fmt.Errorf("task %q not found", args[0])
			}
			col, _ := models.ColumnByID(target)
			if task.ColumnID == target {
				fmt.Fprintf(cmd.OutOrStdout(), "%q is already in %s\n", task.Title, col.Title)
				return nil
			}

			m.MoveTask(cmd.Context(), task.ID, target)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Moved %q to %s\n", task.Title, col.Title)
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			task, ok := m.Task(args[0])
			if !ok {
				return fmt.Errorf("task %q not found", args[0])
			}
			m.DeleteTask(cmd.Context(), task.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %q\n", task.Title)
			return nil
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show board status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Kanban Board Status")
			fmt.Fprintln(out, "===================")
			fmt.Fprintf(out, "Backend:     %s\n", a.backendName())
			fmt.Fprintf(out, "Storage Key: %s\n", a.cfg.StorageKey)
			fmt.Fprintf(out, "Total Tasks: %d\n", len(m.Tasks()))

			fmt.Fprintln(out, "\nTask Breakdown:")
			for _, l := range m.Lanes() {
				fmt.Fprintf(out, "  %-12s %d\n", l.Column.Title+":", len(l.Tasks))
			}
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write the persisted board JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			state := models.BoardState{Tasks: m.Tasks()}
			if len(args) == 0 {
				raw, err := board.Encode(state)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), raw)
				return nil
			}
			if err := exportState(state, args[0]); err != nil {
				return fmt.Errorf("failed to export board: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d tasks to %s\n", len(state.Tasks), args[0])
			return nil
		},
	}
}

func unknownColumn(s string) error {
	ids := make([]string, 0, len(models.Columns))
	for _, c := range models.Columns {
		ids = append(ids, string(c.ID))
	}
	return fmt.Errorf("unknown column %q (want one of %s)", s, strings.Join(ids, ", "))
}
