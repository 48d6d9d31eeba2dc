package commands

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/leapstack-labs/inspectomop/pkg/core"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the CDM tables of the database by category",
		Long: `List the reflected OMOP CDM tables grouped into the six CDM categories:
clinical, vocabulary, derived_element, health_system, health_economic and
metadata. Tables that are not part of the CDM are left out.`,
		Example: `  # Summary of all categories
  inspectomop tables

  # Only the vocabulary tables
  inspectomop tables --category vocabulary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if category == "" {
				return runTablesSummary(cmd, cmdCtx)
			}
			c, err := core.ParseCategory(category)
			if err != nil {
				return err
			}
			return runTablesCategory(cmd, cmdCtx, c)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list tables of this category")
	_ = cmd.RegisterFlagCompletionFunc("category", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var keys []string
		for _, c := range core.Categories() {
			keys = append(keys, c.String())
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runTablesSummary(cmd *cobra.Command, cmdCtx *CommandContext) error {
	summary, err := cmdCtx.Inspector.Summary(cmd.Context())
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summaryJSON(summary))
	}
	r.KeyValue("Connection", adapter.RedactURL(cmdCtx.Inspector.ConnectionURL()))
	r.Println("")
	return r.Frame(summary)
}

// summaryJSON turns the padded summary frame into category -> tables.
func summaryJSON(summary *inspector.Frame) map[string][]string {
	out := make(map[string][]string, len(summary.Columns))
	for _, c := range summary.Columns {
		out[c] = []string{}
		col, _ := summary.Column(c)
		for _, v := range col {
			if s, _ := v.(string); s != "" {
				out[c] = append(out[c], s)
			}
		}
	}
	return out
}

func runTablesCategory(cmd *cobra.Command, cmdCtx *CommandContext, c core.Category) error {
	tables, err := cmdCtx.Inspector.CategoryTables(cmd.Context(), c)
	if err != nil {
		return err
	}

	f := &inspector.Frame{Columns: []string{"table", "schema", "columns", "primary_key"}}
	for _, name := range slices.Sorted(maps.Keys(tables)) {
		t := tables[name]
		f.Rows = append(f.Rows, []any{t.Name, t.Schema, len(t.Columns), strings.Join(t.PrimaryKey, ", ")})
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() != output.ModeJSON {
		r.Header(2, fmt.Sprintf("%s tables", c.Title()))
	}
	return r.Frame(f)
}

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <table>",
		Short: "Describe the columns of a table",
		Example: `  inspectomop info person
  inspectomop info concept -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			t, err := cmdCtx.Inspector.Table(ctx, args[0])
			if err != nil {
				return err
			}
			info, err := cmdCtx.Inspector.TableInfo(ctx, args[0])
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() != output.ModeJSON {
				r.Header(2, t.QualifiedName())
				if c, ok := t.Category(); ok {
					r.KeyValue("Category", c.Title())
				}
				r.KeyValue("Primary key", strings.Join(t.PrimaryKey, ", "))
				r.Println("")
			}
			return r.Frame(info)
		},
	}
}
