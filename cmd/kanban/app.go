package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/internal/config"
	"github.com/ldi/kanban/internal/store"
	"github.com/ldi/kanban/pkg/models"
)

type cliOptions struct {
	configPath string
	backend    string
	verbose    bool
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	opts cliOptions
	cfg  *config.Config
	log  *log.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.backend != "" {
		cfg.Storage.Backend = a.opts.backend
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.Log, a.opts.verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = logger
	return nil
}

func newLogger(cfg config.LogConfig, verbose bool, out io.Writer) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(out)

	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return logger, nil
}

// openBoard opens the configured store and returns a manager over it. The
// manager is not initialized; callers decide when to hydrate it.
func (a *app) openBoard(ctx context.Context) (*board.Manager, func(), error) {
	st, closer, err := store.Open(ctx, a.cfg.StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", a.backendName(), err)
	}
	a.log.WithFields(log.Fields{
		"backend": a.backendName(),
		"key":     a.cfg.StorageKey,
	}).Debug("store opened")

	m := board.NewManager(st,
		board.WithKey(a.cfg.StorageKey),
		board.WithLogger(a.log),
	)
	closeFn := func() {
		if err := closer.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close store")
		}
	}
	return m, closeFn, nil
}

// loadBoard is openBoard followed by Init.
func (a *app) loadBoard(ctx context.Context) (*board.Manager, func(), error) {
	m, closeFn, err := a.openBoard(ctx)
	if err != nil {
		return nil, nil, err
	}
	m.Init(ctx)
	return m, closeFn, nil
}

func (a *app) backendName() string {
	if a.cfg.Storage.Backend == "" {
		return store.BackendFile
	}
	return strings.ToLower(a.cfg.Storage.Backend)
}

// autoExport keeps a JSON copy of the board at path, written once now and
// again after every change.
func (a *app) autoExport(m *board.Manager, path string) {
	if path == "" {
		return
	}
	write := func(state models.BoardState) {
		if err := exportState(state, path); err != nil {
			a.log.WithError(err).WithField("path", path).Error("failed to export board")
		}
	}
	m.SetOnChange(func(ctx context.Context, state models.BoardState) {
		write(state)
	})
	write(models.BoardState{Tasks: m.Tasks()})
}

func exportState(state models.BoardState, path string) error {
	raw, err := board.Encode(state)
	if err != nil {
		return err
	}
	return store.WriteFileAtomic(path, []byte(raw+"\n"))
}

// logFile redirects logging to a file next to the board data, for modes
// that own the terminal.
func (a *app) logFile() (io.Closer, error) {
	dir := a.cfg.Storage.Dir
	if dir == "" {
		dir = ".kanban"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "kanban.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	a.log.SetOutput(f)
	return f, nil
}
