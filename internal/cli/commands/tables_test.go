package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/inspectomop/internal/cli/config"
	clitest "github.com/leapstack-labs/inspectomop/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr string
	}{
		{
			name:    "summary",
			want:    []string{"- **Connection**: sqlite:///", "| clinical | vocabulary |", "person", "concept", "care_site", "payer_plan_period", "cdm_source"},
			notWant: []string{"\x1b["},
		},
		{
			name:    "category",
			args:    []string{"--category", "vocabulary"},
			want:    []string{"## Vocabularies tables", "| table | schema | columns | primary_key |", "| concept |", "| concept_synonym |"},
			notWant: []string{"| person |"},
		},
		{
			name: "plural category alias",
			args: []string{"-c", "health-economics"},
			want: []string{"| payer_plan_period |"},
		},
		{
			name:    "unknown category",
			args:    []string{"-c", "billing"},
			wantErr: "billing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clitest.SetupOMOPProject(t, "")

			out, _, err := runCommand(t, NewTablesCommand(), "", tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			clitest.AssertValidMarkdown(t, out)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestTablesCommand_JSON(t *testing.T) {
	clitest.SetupOMOPProject(t, "output: json\n")

	out, _, err := runCommand(t, NewTablesCommand(), "")
	require.NoError(t, err)

	var summary map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &summary), out)
	assert.Contains(t, summary["clinical"], "person")
	assert.Contains(t, summary["vocabulary"], "concept")
	assert.Contains(t, summary["health_system"], "care_site")
	assert.NotContains(t, summary["clinical"], "")
}

func TestInfoCommand(t *testing.T) {
	clitest.SetupOMOPProject(t, "")

	out, _, err := runCommand(t, NewInfoCommand(), "", "person")
	require.NoError(t, err)
	assert.Contains(t, out, "person")
	assert.Contains(t, out, "- **Category**: Clinical")
	assert.Contains(t, out, "- **Primary key**: person_id")
	assert.Contains(t, out, "| column | type | nullable | primary_key |")
	assert.Contains(t, out, "| gender_concept_id |")

	_, _, err = runCommand(t, NewInfoCommand(), "", "no_such_table")
	require.Error(t, err)

	_, _, err = runCommand(t, NewInfoCommand(), "")
	require.Error(t, err)
}

func TestCommands_NoURL(t *testing.T) {
	clitest.Chdir(t, t.TempDir())
	config.ResetConfig()

	_, _, err := runCommand(t, NewTablesCommand(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database url")
}
