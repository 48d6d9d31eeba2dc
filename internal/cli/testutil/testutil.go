// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/inspectomop/internal/cli/config"
	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	omoptest "github.com/leapstack-labs/inspectomop/internal/testutil"

	// sqlite driver for the fixture database.
	_ "modernc.org/sqlite"
)

// Project is a temporary inspectomop project pointing at a seeded OMOP
// database file.
type Project struct {
	Dir        string
	DBPath     string
	ConfigPath string
}

// URL returns the connection URL of the project database.
func (p *Project) URL() string {
	return "sqlite:///" + p.DBPath
}

// HistoryPath returns the query history file of the project.
func (p *Project) HistoryPath() string {
	return filepath.Join(p.Dir, config.DefaultHistoryFile)
}

// SetupOMOPProject creates a project directory holding cdm.db, seeded with
// the OMOP fixture, and an inspectomop.yaml that points at it. The working
// directory is changed to the project for the duration of the test and the
// configuration is loaded, so commands run outside the root command see it.
func SetupOMOPProject(t *testing.T, extraConfig string) *Project {
	t.Helper()

	dir := t.TempDir()
	p := &Project{
		Dir:        dir,
		DBPath:     filepath.Join(dir, "cdm.db"),
		ConfigPath: filepath.Join(dir, config.DefaultConfigFile),
	}

	db, err := sql.Open("sqlite", p.DBPath)
	if err != nil {
		t.Fatalf("failed to create fixture database: %v", err)
	}
	omoptest.SeedOMOP(t, db)
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close fixture database: %v", err)
	}

	content := fmt.Sprintf("url: %s\n%s", p.URL(), extraConfig)
	if err := os.WriteFile(p.ConfigPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	Chdir(t, dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	if _, err := config.LoadConfig("", nil); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return p
}

// Chdir changes the working directory until the test ends.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation: balanced code
// fences and non-empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
