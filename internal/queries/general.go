package queries

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

var conceptOutputs = []output{
	{"concept_id", "c.concept_id"},
	{"concept_name", "c.concept_name"},
	{"concept_code", "c.concept_code"},
	{"concept_class_id", "c.concept_class_id"},
	{"standard_concept", "c.standard_concept"},
	{"vocabulary_id", "c.vocabulary_id"},
	{"vocabulary_name", "v.vocabulary_name"},
}

// ConceptsForConceptIDs returns concept and vocabulary details for the
// given concept IDs (G01).
func ConceptsForConceptIDs(ctx context.Context, insp *inspector.Inspector, conceptIDs []int64, returnColumns []string) (*inspector.Results, error) {
	if len(conceptIDs) == 0 {
		return nil, fmt.Errorf("%w: concept ids", ErrMissingArgument)
	}
	t, err := tables(ctx, insp, "concept", "vocabulary")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, conceptOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s v ON c.vocabulary_id = v.vocabulary_id
		WHERE c.concept_id IN %s
		ORDER BY c.concept_id`,
		cols, t["concept"], t["vocabulary"], b.in(int64s(conceptIDs)...))
	return insp.Execute(ctx, query, b.args...)
}

var synonymOutputs = []output{
	{"concept_id", "c.concept_id"},
	{"concept_synonym_name", "s.concept_synonym_name"},
}

// SynonymsForConceptIDs returns the synonyms of the given concept IDs (G04).
func SynonymsForConceptIDs(ctx context.Context, insp *inspector.Inspector, conceptIDs []int64, returnColumns []string) (*inspector.Results, error) {
	if len(conceptIDs) == 0 {
		return nil, fmt.Errorf("%w: concept ids", ErrMissingArgument)
	}
	t, err := tables(ctx, insp, "concept", "concept_synonym", "vocabulary")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, synonymOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s s ON c.concept_id = s.concept_id
		JOIN %s v ON c.vocabulary_id = v.vocabulary_id
		WHERE c.concept_id IN %s
		ORDER BY c.concept_id, s.concept_synonym_name`,
		cols, t["concept"], t["concept_synonym"], t["vocabulary"], b.in(int64s(conceptIDs)...))
	return insp.Execute(ctx, query, b.args...)
}
