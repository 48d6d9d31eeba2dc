package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() *inspector.Frame {
	return &inspector.Frame{
		Columns: []string{"person_id", "gender", "birth_date"},
		Rows: [][]any{
			{int64(1), "MALE", time.Date(1950, 4, 12, 0, 0, 0, 0, time.UTC)},
			{int64(2), "FEMALE, \"F\"", nil},
		},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: "text", want: ModeText},
		{in: "md", want: ModeMarkdown},
		{in: "json", want: ModeJSON},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("", ModeJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("", ModeMarkdown)
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	f, err = ParseFormat("markdown", ModeText)
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("xml", ModeText)
	assert.Error(t, err)
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &errOut, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &errOut, true, ModeJSON).EffectiveMode())
	// A buffer is never a terminal.
	assert.False(t, NewRenderer(&out, &errOut, ModeAuto).IsTTY())
}

func TestRenderer_NoANSIWhenPiped(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeAuto)

	r.Header(1, "Tables")
	r.Success("done")
	r.StatusLine("inspectomop.yaml", "success", "created")
	r.KeyValue("Dialect", "sqlite")
	r.Warning("careful")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "# Tables")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "- **Dialect**: sqlite")
	assert.Contains(t, errOut.String(), "careful")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeJSON)
	require.NoError(t, r.JSON(map[string]int{"tables": 3}))
	assert.JSONEq(t, `{"tables": 3}`, out.String())
}

func TestWriteFrame(t *testing.T) {
	tests := []struct {
		format Format
		want   []string
	}{
		{format: FormatTable, want: []string{"PERSON_ID", "MALE", "1950-04-12", "NULL", "(2 rows)"}},
		{format: FormatMarkdown, want: []string{"| person_id | gender | birth_date |", "| 1 | MALE | 1950-04-12 |"}},
		{format: FormatCSV, want: []string{"person_id,gender,birth_date", `"FEMALE, ""F"""`}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteFrame(&buf, testFrame(), tt.format))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriteFrame_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, testFrame(), FormatJSON))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "MALE", rows[0]["gender"])
	assert.Equal(t, "1950-04-12", rows[0]["birth_date"])
	assert.Nil(t, rows[1]["birth_date"])

	// Keys keep column order.
	assert.Less(t, strings.Index(buf.String(), "person_id"), strings.Index(buf.String(), "birth_date"))
}

func TestWriteFrame_CSVQuoting(t *testing.T) {
	f := &inspector.Frame{
		Columns: []string{"id", "name"},
		Rows: [][]any{
			{int64(1), `Smith, "Jr"`},
			{int64(2), "line\nbreak"},
			{int64(3), nil},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, FormatCSV))
	assert.Contains(t, buf.String(), `1,"Smith, ""Jr"""`)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "name"},
		{"1", `Smith, "Jr"`},
		{"2", "line\nbreak"},
		{"3", "NULL"},
	}, records)
}

func TestFrameWriter_Chunks(t *testing.T) {
	chunks := []*inspector.Frame{
		{Columns: []string{"n"}, Rows: [][]any{{int64(1)}, {int64(2)}}},
		{Columns: []string{"n"}, Rows: [][]any{{int64(3)}}},
	}

	t.Run("json is one array", func(t *testing.T) {
		var buf bytes.Buffer
		fw := NewFrameWriter(&buf, FormatJSON)
		for _, c := range chunks {
			require.NoError(t, fw.Write(c))
		}
		require.NoError(t, fw.Close())

		var rows []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		assert.Len(t, rows, 3)
		assert.Equal(t, 3, fw.Rows())
	})

	t.Run("csv header once", func(t *testing.T) {
		var buf bytes.Buffer
		fw := NewFrameWriter(&buf, FormatCSV)
		for _, c := range chunks {
			require.NoError(t, fw.Write(c))
		}
		require.NoError(t, fw.Close())
		assert.Equal(t, "n\n1\n2\n3\n", buf.String())
	})

	t.Run("empty json", func(t *testing.T) {
		var buf bytes.Buffer
		fw := NewFrameWriter(&buf, FormatJSON)
		require.NoError(t, fw.Close())
		assert.JSONEq(t, `[]`, buf.String())
	})
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Health System", Title("health_system"))
	assert.Equal(t, "Metadata", Title("metadata"))
	assert.Equal(t, "# Summary", FormatHeader(1, "Summary"))
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
}
