package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/internal/ui"
)

var Version = "dev"

// Swapped out in tests.
var (
	runMenu    = ui.RunMenu
	isTerminal = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "kanban",
		Short:         "Kanban - a single-user task board",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return cmd.Help()
			}
			selected, err := runMenu(menuItems(cmd), a.laneSummary(cmd.Context()))
			if err != nil {
				return fmt.Errorf("menu failed: %w", err)
			}
			if selected == "" {
				return nil
			}
			sub, _, err := cmd.Find([]string{selected})
			if err != nil || sub == cmd {
				return fmt.Errorf("unknown command: %s", selected)
			}
			sub.SetContext(cmd.Context())
			return sub.RunE(sub, nil)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Path to config file (default .kanban/config.yaml)")
	flags.StringVar(&a.opts.backend, "backend", "", "Storage backend: memory, file, sqlite, redis or aztables")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		initCmd(a),
		tuiCmd(a),
		listCmd(a),
		addCmd(a),
		moveCmd(a),
		deleteCmd(a),
		statusCmd(a),
		exportCmd(a),
		webCmd(a),
		mcpCmd(a),
	)
	return root
}

// hideFromMenu marks commands that make no sense to start interactively.
const hideFromMenu = "kanban/menu-hidden"

// menuItems lists the runnable subcommands for the start menu, the board
// first.
func menuItems(root *cobra.Command) []ui.MenuItem {
	var items []ui.MenuItem
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() || c.Name() == "completion" || c.Annotations[hideFromMenu] != "" {
			continue
		}
		item := ui.MenuItem{Name: c.Name(), Description: c.Short}
		if c.Name() == "tui" {
			items = append([]ui.MenuItem{item}, items...)
			continue
		}
		items = append(items, item)
	}
	return items
}

// laneSummary loads the board for the menu header. The menu still opens
// without it when the store is unavailable.
func (a *app) laneSummary(ctx context.Context) []board.Lane {
	m, closeFn, err := a.loadBoard(ctx)
	if err != nil {
		a.log.WithError(err).Debug("board summary unavailable")
		return nil
	}
	defer closeFn()
	return m.Lanes()
}
