package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	entries := Catalog()
	require.Len(t, entries, 15)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.Name], "duplicate query %s", e.Name)
		seen[e.Name] = true
		assert.NotEmpty(t, e.Code)
		assert.NotEmpty(t, e.Summary)
		assert.NotEmpty(t, e.Columns)
	}
	assert.Equal(t, "care_site", entries[0].Domain)
	assert.Len(t, Names(), 15)
	assert.IsNonDecreasing(t, Names())
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("patient_counts_by_gender")
	require.True(t, ok)
	assert.Equal(t, "PE03", e.Code)
	assert.True(t, e.PersonFilter)

	e, ok = Lookup("D04")
	require.True(t, ok)
	assert.Equal(t, "drugs_for_ingredient_concept_id", e.Name)
	assert.Equal(t, ArgConceptID, e.Arg)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestEntry_Run(t *testing.T) {
	ctx := context.Background()
	insp := newTestInspector(t)

	tests := []struct {
		name    string
		req     Request
		wantLen int
		wantErr error
	}{
		{name: "concepts_for_concept_ids", req: Request{ConceptIDs: []int64{8507}}, wantLen: 1},
		{name: "concepts_for_concept_ids", req: Request{}, wantErr: ErrMissingArgument},
		{name: "drugs_for_ingredient_concept_id", req: Request{ConceptIDs: []int64{1503297}}, wantLen: 3},
		{name: "drugs_for_ingredient_concept_id", req: Request{ConceptIDs: []int64{1, 2}}, wantErr: ErrMissingArgument},
		{name: "condition_concepts_for_name", req: Request{Keyword: "diabetes"}, wantLen: 1},
		{name: "condition_concepts_for_name", req: Request{}, wantErr: ErrMissingArgument},
		{name: "patient_counts_by_gender", req: Request{PersonIDs: []int64{1}}, wantLen: 1},
		{name: "counts_by_years_of_coverage", wantLen: 3},
		{name: "patient_distribution_by_plan_type", req: Request{Columns: []string{"count"}}, wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Lookup(tt.name)
			require.True(t, ok)
			f, err := e.Run(ctx, insp, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, f.Len())
		})
	}
}
