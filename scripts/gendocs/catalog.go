package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/inspectomop/internal/queries"
	"github.com/leapstack-labs/inspectomop/pkg/core"
)

// generateQueryDocs writes queries.md, the reference of the named OMOP
// queries grouped by domain.
func generateQueryDocs(outDir string) error {
	log.Printf("Generating query docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("OMOP Queries", "Named OMOP queries available through inspectomop omop")
	w.GeneratedMarker()

	w.Header(1, "OMOP Queries")
	w.Paragraph("Each query can be run by name or by its OMOP-Queries code. " +
		"All of them accept " + InlineCode("--columns") + " to select output columns.")
	w.CodeBlock("bash", "inspectomop omop patient_counts_by_gender --persons 1,2,3\ninspectomop omop G01 8507 8532")

	var domain string
	var rows [][]string
	flush := func() {
		if len(rows) > 0 {
			w.Header(2, domain)
			w.Table([]string{"Query", "Code", "Argument", "Columns", "Description"}, rows)
		}
		rows = nil
	}
	for _, e := range queries.Catalog() {
		if e.Domain != domain {
			flush()
			domain = e.Domain
		}
		arg := e.Arg.String()
		if e.PersonFilter {
			arg = strings.TrimSpace(arg + " " + InlineCode("--persons"))
		}
		cols := make([]string, len(e.Columns))
		for i, c := range e.Columns {
			cols[i] = InlineCode(c)
		}
		rows = append(rows, []string{InlineCode(e.Name), e.Code, arg, strings.Join(cols, ", "), cleanDescription(e.Summary)})
	}
	flush()

	filename := filepath.Join(outDir, "queries.md")
	log.Printf("  Generated queries.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// generateTableDocs writes cdm-tables.md, the CDM tables of each category.
func generateTableDocs(outDir string) error {
	log.Printf("Generating CDM table docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("CDM Tables", "OMOP CDM tables by category")
	w.GeneratedMarker()

	w.Header(1, "CDM Tables")
	w.Paragraph("Reflected tables are grouped into these categories. Tables not listed here are ignored by " +
		InlineCode("inspectomop tables") + ".")

	for _, c := range core.Categories() {
		w.Header(2, c.Title())
		w.Paragraph("Category key: " + InlineCode(c.String()))
		var items []string
		for _, t := range core.CategoryTables(c) {
			items = append(items, InlineCode(t))
		}
		w.BulletList(items)
	}

	filename := filepath.Join(outDir, "cdm-tables.md")
	log.Printf("  Generated cdm-tables.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
