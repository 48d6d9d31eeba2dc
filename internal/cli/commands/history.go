package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/leapstack-labs/inspectomop/internal/state"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed queries",
		Long: `Show the SQL queries run through 'inspectomop query', most recent first.

The history is kept in the SQLite file named by history_path and can be
switched off with 'history: false' or --history=false.`,
		Example: `  # Last 20 queries
  inspectomop history

  # Everything, as JSON
  inspectomop history --limit 0 -o json

  # Forget all recorded queries
  inspectomop history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutInspector(cmd)
			path := cmdCtx.Cfg.HistoryPath
			r := cmdCtx.Renderer

			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return renderHistory(r, nil)
			}

			store, err := openHistory(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("failed to open query history: %w", err)
			}
			defer func() { _ = store.Close() }()

			if clearAll {
				n, err := store.ClearQueries(cmd.Context())
				if err != nil {
					return err
				}
				r.Success(fmt.Sprintf("Removed %d queries from history", n))
				return nil
			}

			records, err := store.ListQueries(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderHistory(r, records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of queries to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove all recorded queries")

	return cmd
}

func renderHistory(r *output.Renderer, records []*state.QueryRecord) error {
	if r.EffectiveMode() == output.ModeJSON {
		type recordJSON struct {
			ID         string    `json:"id"`
			Connection string    `json:"connection"`
			Query      string    `json:"query"`
			Rows       int64     `json:"rows"`
			DurationMS int64     `json:"duration_ms"`
			Error      string    `json:"error,omitempty"`
			ExecutedAt time.Time `json:"executed_at"`
		}
		out := make([]recordJSON, len(records))
		for i, rec := range records {
			out[i] = recordJSON{rec.ID, rec.ConnectionURL, rec.Query, rec.RowCount, rec.Duration.Milliseconds(), rec.Error, rec.ExecutedAt}
		}
		return r.JSON(out)
	}

	if len(records) == 0 {
		r.Muted("No queries recorded")
		return nil
	}

	f := &inspector.Frame{Columns: []string{"executed_at", "status", "rows", "duration", "query"}}
	for _, rec := range records {
		status := "ok"
		if !rec.Succeeded() {
			status = "error: " + rec.Error
		}
		f.Rows = append(f.Rows, []any{
			rec.ExecutedAt.Local().Format(time.DateTime),
			status,
			rec.RowCount,
			rec.Duration.Round(time.Millisecond).String(),
			rec.Query,
		})
	}
	return r.Frame(f)
}
