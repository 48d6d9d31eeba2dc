package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "inspectomop> "
	replContinue   = "        ...> "
	replHistoryLog = "repl_history"
)

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, format output.Format, chunkSize int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(filepath.Dir(cmdCtx.Cfg.HistoryPath), replHistoryLog),
		AutoComplete:    newTableCompleter(ctx, cmdCtx.Inspector),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          out,
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(out, "inspectomop REPL (%s)\n", adapter.RedactURL(cmdCtx.Inspector.ConnectionURL()))
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if err != nil {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, out, cmd.ErrOrStderr(), cmdCtx.Inspector, line, format); quit {
				break
			}
			continue
		}

		// Statements run once terminated by a semicolon.
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString("\n")
			rl.SetPrompt(replContinue)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := strings.TrimSuffix(buf.String(), ";")
		buf.Reset()

		if err := executeAndRender(ctx, cmdCtx, out, query, format, chunkSize); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

// handleDotCommand runs a REPL meta command. It reports whether the REPL
// should exit.
func handleDotCommand(ctx context.Context, out, errOut io.Writer, insp *inspector.Inspector, line string, format output.Format) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".tables":
		summary, err := insp.Summary(ctx)
		if err == nil {
			err = output.WriteFrame(out, summary, format)
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}

	case ".info", ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(errOut, "Usage: %s <table>\n", command)
			return false
		}
		info, err := insp.TableInfo(ctx, parts[1])
		if err == nil {
			err = output.WriteFrame(out, info, format)
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}

	case ".refresh":
		insp.Invalidate()
		_, _ = fmt.Fprintln(out, "Table cache cleared")

	case ".clear":
		_, _ = fmt.Fprint(out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         Summarize CDM tables by category
  .info <table>   Show the columns of a table
  .refresh        Reflect the database again
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for reflected table names.
func newTableCompleter(ctx context.Context, insp *inspector.Inspector) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Completion is best effort; a failed reflection only loses table names.
	if tables, err := insp.Tables(ctx); err == nil {
		names := make([]readline.PrefixCompleterInterface, 0, len(tables))
		for _, name := range slices.Sorted(maps.Keys(tables)) {
			items = append(items, readline.PcItem(name))
			names = append(names, readline.PcItem(name))
		}
		items = append(items,
			readline.PcItem(".info", names...),
			readline.PcItem(".schema", names...),
		)
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".refresh"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
