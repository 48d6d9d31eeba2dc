package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format    string
	Input     string
	ChunkSize int
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the CDM database",
		Long: `Execute SQL against the configured OMOP CDM database.

SQL is taken from the arguments, from --input, or from piped stdin. With
--chunk-size the result is fetched and rendered in chunks of that many rows
instead of all at once.

When invoked without SQL on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  inspectomop query "SELECT * FROM person LIMIT 10"

  # Stream a large table as CSV
  inspectomop query "SELECT * FROM measurement" --format csv --chunk-size 10000

  # Read SQL from a file
  inspectomop query --input cohort.sql --format json

  # Interactive mode
  inspectomop query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md (default follows --output)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().IntVarP(&opts.ChunkSize, "chunk-size", "n", -1, "Fetch and render this many rows at a time (default from config, 0 fetches all)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Formats(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := output.ParseFormat(opts.Format, cmdCtx.Renderer.EffectiveMode())
	if err != nil {
		return err
	}
	chunkSize := opts.ChunkSize
	if chunkSize < 0 {
		chunkSize = cmdCtx.Cfg.ChunkSize
	}

	var sqlQuery string
	in := cmd.InOrStdin()
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(in):
		content, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd, cmdCtx, format, chunkSize)
	}

	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return fmt.Errorf("no SQL to execute")
	}
	return executeAndRender(cmd.Context(), cmdCtx, cmd.OutOrStdout(), sqlQuery, format, chunkSize)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
