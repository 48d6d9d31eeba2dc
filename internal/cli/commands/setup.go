package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/inspectomop/internal/cli/config"
	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/leapstack-labs/inspectomop/internal/state"
	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Inspector *inspector.Inspector
	Renderer  *output.Renderer
	// History is nil when query history is disabled.
	History state.Store
}

// NewCommandContext connects to the configured database and opens the
// query history. The cleanup function must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutInspector(cmd)
	cfg := cmdCtx.Cfg
	if err := cfg.RequireURL(); err != nil {
		return nil, nil, err
	}

	insp, err := openInspector(cmd.Context(), cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Inspector = insp

	if cfg.History {
		store, err := openHistory(cmd.Context(), cfg.HistoryPath)
		if err != nil {
			// History is best effort; queries still run without it.
			cmdCtx.Logger.Warn("query history disabled", "path", cfg.HistoryPath, "error", err)
		} else {
			cmdCtx.History = store
		}
	}

	cleanup := func() {
		if cmdCtx.History != nil {
			_ = cmdCtx.History.Close()
		}
		_ = insp.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutInspector creates a CommandContext without a
// database connection.
func NewCommandContextWithoutInspector(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// getConfig returns the loaded configuration, or the defaults when no
// configuration was loaded (commands run outside the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func openInspector(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*inspector.Inspector, error) {
	insp, err := inspector.New(ctx, cfg.URL,
		inspector.WithLogger(logger),
		inspector.WithReflectConcurrency(cfg.ReflectConcurrency),
		inspector.WithAdapterParams(cfg.Params),
	)
	if err != nil {
		return nil, err
	}
	for _, a := range cfg.Attach {
		if err := insp.AttachSQLiteDB(ctx, a.File, a.Schema); err != nil {
			_ = insp.Close()
			return nil, fmt.Errorf("failed to attach %s as %s: %w", a.File, a.Schema, err)
		}
	}
	return insp, nil
}

func openHistory(ctx context.Context, path string) (*state.SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	store := state.NewSQLiteStore()
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// recordQuery adds an executed query to the history, if enabled.
func (c *CommandContext) recordQuery(ctx context.Context, query string, rows int, elapsed time.Duration, queryErr error) {
	if c.History == nil {
		return
	}
	rec := &state.QueryRecord{
		ConnectionURL: adapter.RedactURL(c.Cfg.URL),
		Query:         query,
		RowCount:      int64(rows),
		Duration:      elapsed,
	}
	if queryErr != nil {
		rec.Error = queryErr.Error()
	}
	if err := c.History.RecordQuery(ctx, rec); err != nil {
		c.Logger.Warn("failed to record query", "error", err)
	}
}
