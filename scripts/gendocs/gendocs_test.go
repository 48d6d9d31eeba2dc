package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"a", "b"}, [][]string{{"1", "x|y"}})

	want := "| a | b |\n| --- | --- |\n| 1 | x\\|y |\n\n"
	if got := string(w.Bytes()); got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
}

func TestGenerators(t *testing.T) {
	tests := []struct {
		gen  string
		file string
		want []string
	}{
		{gen: "queries", file: "queries.md", want: []string{"## person", "`patient_counts_by_gender` | PE03", "`--persons`"}},
		{gen: "tables", file: "cdm-tables.md", want: []string{"## Clinical", "- `person`", "Category key: `health_economic`"}},
		{gen: "cli", file: "omop-list.md", want: []string{"# omop list", "inspectomop omop list"}},
		{gen: "cli", file: "index.md", want: []string{"INSPECTOMOP_URL", "[`query`](/cli/query)"}},
	}

	for _, tt := range tests {
		t.Run(tt.gen+"/"+tt.file, func(t *testing.T) {
			dir := t.TempDir()
			if err := generators[tt.gen].run(dir); err != nil {
				t.Fatalf("generate %s: %v", tt.gen, err)
			}
			content, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("read %s: %v", tt.file, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(content), want) {
					t.Errorf("%s should contain %q", tt.file, want)
				}
			}
		})
	}
}
