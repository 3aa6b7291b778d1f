package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ldi/kanban/internal/mcp"
	"github.com/ldi/kanban/internal/server"
	"github.com/ldi/kanban/internal/ui"
)

// Swapped out in tests.
var runBoard = ui.RunBoard

func tuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logs, err := a.logFile()
			if err != nil {
				return err
			}
			defer logs.Close()

			m, closeFn, err := a.openBoard(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			return runBoard(ctx, m)
		},
	}
}

func webCmd(a *app) *cobra.Command {
	var addr, exportPath string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the board over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Web.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, closeFn, err := a.loadBoard(ctx)
			if err != nil {
				return err
			}
			defer closeFn()
			a.autoExport(m, exportPath)

			srv := server.NewServer(m, a.log)
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info("shutting down web server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down web server: %w", err)
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default from config, :8000)")
	cmd.Flags().StringVar(&exportPath, "export", "", "Keep a JSON copy of the board at this path")
	return cmd
}

func mcpCmd(a *app) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:         "mcp",
		Short:       "Serve the board as MCP tools over stdio",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{hideFromMenu: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol.
			a.log.SetOutput(os.Stderr)

			m, closeFn, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			a.autoExport(m, exportPath)

			return mcp.Serve(mcp.NewServer(m, Version))
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Keep a JSON copy of the board at this path")
	return cmd
}
