package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	clitest "github.com/leapstack-labs/inspectomop/internal/cli/testutil"
	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand_Formats(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "csv",
			args: []string{"SELECT person_id, year_of_birth FROM person ORDER BY person_id", "-f", "csv"},
			want: []string{"person_id,year_of_birth\n", "1,1950\n", "5,1975\n"},
		},
		{
			name: "markdown by default when piped",
			args: []string{"SELECT person_id, year_of_birth FROM person WHERE person_id = 3"},
			want: []string{"| person_id | year_of_birth |", "| 3 | 1962 |"},
		},
		{
			name: "table",
			args: []string{"SELECT person_id FROM person", "--format", "table"},
			want: []string{"PERSON_ID", "(5 rows)"},
		},
		{
			name: "sql split over arguments",
			args: []string{"SELECT", "COUNT(*)", "AS", "n", "FROM", "person", "-f", "csv"},
			want: []string{"n\n5\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clitest.SetupOMOPProject(t, "")

			out, _, err := runCommand(t, NewQueryCommand(), "", tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestQueryCommand_ChunkedJSON(t *testing.T) {
	clitest.SetupOMOPProject(t, "")

	for _, size := range []string{"0", "1", "2", "5", "10"} {
		t.Run("chunk-size "+size, func(t *testing.T) {
			out, _, err := runCommand(t, NewQueryCommand(), "",
				"SELECT person_id, birth_datetime FROM person ORDER BY person_id", "-f", "json", "--chunk-size", size)
			require.NoError(t, err)

			var rows []map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
			require.Len(t, rows, 5)
			assert.EqualValues(t, 1, rows[0]["person_id"])
			assert.Equal(t, "1950-04-12 00:00:00", rows[0]["birth_datetime"])
			assert.EqualValues(t, 5, rows[4]["person_id"])
		})
	}
}

func TestQueryCommand_ChunkSizeFromConfig(t *testing.T) {
	clitest.SetupOMOPProject(t, "chunk_size: 2\n")

	out, _, err := runCommand(t, NewQueryCommand(), "", "SELECT person_id FROM person ORDER BY person_id", "-f", "csv")
	require.NoError(t, err)
	assert.Equal(t, "person_id\n1\n2\n3\n4\n5\n", out)
}

func TestQueryCommand_Input(t *testing.T) {
	clitest.SetupOMOPProject(t, "")

	t.Run("stdin", func(t *testing.T) {
		out, _, err := runCommand(t, NewQueryCommand(), "SELECT COUNT(*) AS n FROM death;\n", "-f", "csv")
		require.NoError(t, err)
		assert.Equal(t, "n\n1\n", out)
	})

	t.Run("file", func(t *testing.T) {
		require.NoError(t, os.WriteFile("count.sql", []byte("SELECT COUNT(*) AS n FROM care_site"), 0600))
		out, _, err := runCommand(t, NewQueryCommand(), "", "--input", "count.sql", "-f", "csv")
		require.NoError(t, err)
		assert.Equal(t, "n\n2\n", out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runCommand(t, NewQueryCommand(), "", "--input", "missing.sql")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read file")
	})

	t.Run("empty stdin", func(t *testing.T) {
		_, _, err := runCommand(t, NewQueryCommand(), "  \n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no SQL")
	})
}

func TestQueryCommand_Errors(t *testing.T) {
	clitest.SetupOMOPProject(t, "")

	_, _, err := runCommand(t, NewQueryCommand(), "", "SELECT * FROM no_such_table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")

	_, _, err = runCommand(t, NewQueryCommand(), "", "SELECT 1", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestQueryCommand_RecordsHistory(t *testing.T) {
	clitest.SetupOMOPProject(t, "output: json\n")

	_, _, err := runCommand(t, NewQueryCommand(), "", "SELECT person_id FROM person")
	require.NoError(t, err)
	_, _, err = runCommand(t, NewQueryCommand(), "", "SELECT * FROM no_such_table")
	require.Error(t, err)

	out, _, err := runCommand(t, NewHistoryCommand(), "")
	require.NoError(t, err)

	var records []struct {
		Connection string `json:"connection"`
		Query      string `json:"query"`
		Rows       int64  `json:"rows"`
		Error      string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	require.Len(t, records, 2)

	assert.Equal(t, "SELECT * FROM no_such_table", records[0].Query)
	assert.NotEmpty(t, records[0].Error)
	assert.Equal(t, "SELECT person_id FROM person", records[1].Query)
	assert.EqualValues(t, 5, records[1].Rows)
	assert.Empty(t, records[1].Error)
	assert.True(t, strings.HasPrefix(records[1].Connection, "sqlite:///"))
}

func TestQueryCommand_HistoryDisabled(t *testing.T) {
	p := clitest.SetupOMOPProject(t, "history: false\n")

	_, _, err := runCommand(t, NewQueryCommand(), "", "SELECT 1")
	require.NoError(t, err)
	assert.NoFileExists(t, p.HistoryPath())
}

func TestHandleDotCommand(t *testing.T) {
	p := clitest.SetupOMOPProject(t, "")
	ctx := context.Background()
	insp, err := inspector.New(ctx, p.URL())
	require.NoError(t, err)
	defer func() { _ = insp.Close() }()

	tests := []struct {
		line     string
		wantQuit bool
		wantOut  string
		wantErr  string
	}{
		{line: ".quit", wantQuit: true},
		{line: ".EXIT", wantQuit: true},
		{line: ".help", wantOut: ".info <table>"},
		{line: ".tables", wantOut: "| person |"},
		{line: ".info person", wantOut: "| person_id |"},
		{line: ".info", wantErr: "Usage: .info <table>"},
		{line: ".info no_such_table", wantErr: "Error:"},
		{line: ".refresh", wantOut: "Table cache cleared"},
		{line: ".bogus", wantErr: "Unknown command: .bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out := new(bytes.Buffer)
			errOut := new(bytes.Buffer)
			quit := handleDotCommand(ctx, out, errOut, insp, tt.line, output.FormatMarkdown)

			assert.Equal(t, tt.wantQuit, quit)
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestNewQueryCommand(t *testing.T) {
	cmd := NewQueryCommand()
	assert.Equal(t, "query", cmd.Name())
	assert.NotNil(t, cmd.RunE)
	for _, flag := range []string{"format", "input", "chunk-size"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "--%s flag should exist", flag)
	}
}
