package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/leapstack-labs/inspectomop/internal/queries"
	"github.com/spf13/cobra"
)

// OMOPOptions holds options for the omop command.
type OMOPOptions struct {
	Format  string
	Columns []string
	Persons []int64
}

// NewOMOPCommand creates the omop command that runs catalog queries.
func NewOMOPCommand() *cobra.Command {
	opts := &OMOPOptions{}

	cmd := &cobra.Command{
		Use:   "omop <query> [args...]",
		Short: "Run a named OMOP query",
		Long: `Run one of the built-in OMOP queries by name or by its OMOP-Queries code.

Queries taking concept ids accept them as separate arguments or comma
separated. Keyword queries join their arguments with spaces. Use
'inspectomop omop list' to see every query and its argument.`,
		Example: `  # Patients by gender, limited to three persons
  inspectomop omop patient_counts_by_gender --persons 1,2,3

  # Concept details, by code
  inspectomop omop G01 8507 8532 --columns concept_id,concept_name

  # Keyword search
  inspectomop omop condition_concepts_for_name myocardial infarction`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return queries.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOMOP(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md (default follows --output)")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "Only return these columns")
	cmd.Flags().Int64SliceVar(&opts.Persons, "persons", nil, "Restrict person queries to these person ids")

	cmd.AddCommand(newOMOPListCommand())
	return cmd
}

func newOMOPListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the named OMOP queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutInspector(cmd)
			return renderCatalog(cmdCtx.Renderer)
		},
	}
}

// renderCatalog writes the query catalog through r.
func renderCatalog(r *output.Renderer) error {
	entries := queries.Catalog()
	if r.EffectiveMode() == output.ModeJSON {
		type entryJSON struct {
			Name         string   `json:"name"`
			Code         string   `json:"code"`
			Domain       string   `json:"domain"`
			Argument     string   `json:"argument,omitempty"`
			PersonFilter bool     `json:"person_filter"`
			Columns      []string `json:"columns"`
			Summary      string   `json:"summary"`
		}
		out := make([]entryJSON, len(entries))
		for i, e := range entries {
			out[i] = entryJSON{e.Name, e.Code, e.Domain, e.Arg.String(), e.PersonFilter, e.Columns, e.Summary}
		}
		return r.JSON(out)
	}

	f := &inspector.Frame{Columns: []string{"name", "code", "domain", "argument", "summary"}}
	for _, e := range entries {
		arg := e.Arg.String()
		if e.PersonFilter {
			arg = strings.TrimSpace(arg + " [--persons]")
		}
		f.Rows = append(f.Rows, []any{e.Name, e.Code, e.Domain, arg, e.Summary})
	}
	return r.Frame(f)
}

func runOMOP(cmd *cobra.Command, args []string, opts *OMOPOptions) error {
	entry, ok := queries.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown query %q (see 'inspectomop omop list')", args[0])
	}
	req, err := buildRequest(entry, args[1:], opts)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := output.ParseFormat(opts.Format, cmdCtx.Renderer.EffectiveMode())
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("running catalog query", "query", entry.Name, "code", entry.Code)
	f, err := entry.Run(cmd.Context(), cmdCtx.Inspector, req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", entry.Name, err)
	}
	return output.WriteFrame(cmd.OutOrStdout(), f, format)
}

// buildRequest parses the positional arguments of a catalog query.
func buildRequest(entry queries.Entry, args []string, opts *OMOPOptions) (queries.Request, error) {
	req := queries.Request{Columns: opts.Columns}

	if len(opts.Persons) > 0 {
		if !entry.PersonFilter {
			return req, fmt.Errorf("%s does not accept --persons", entry.Name)
		}
		req.PersonIDs = opts.Persons
	}

	switch entry.Arg {
	case queries.ArgNone:
		if len(args) > 0 {
			return req, fmt.Errorf("%s takes no arguments", entry.Name)
		}
	case queries.ArgConceptIDs, queries.ArgConceptID:
		ids, err := parseConceptIDs(args)
		if err != nil {
			return req, err
		}
		req.ConceptIDs = ids
	case queries.ArgKeyword:
		req.Keyword = strings.TrimSpace(strings.Join(args, " "))
	}
	return req, nil
}

func parseConceptIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid concept id %q", field)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
