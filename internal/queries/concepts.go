package queries

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

var entityOutputs = []output{
	{"concept_id", "c.concept_id"},
	{"concept_name", "c.concept_name"},
	{"concept_code", "c.concept_code"},
	{"concept_class_id", "c.concept_class_id"},
	{"vocabulary_id", "c.vocabulary_id"},
	{"vocabulary_name", "v.vocabulary_name"},
}

// conceptSearch describes a keyword search over standard concepts.
type conceptSearch struct {
	vocabularies []string
	// conceptClass also admits concepts of this class, lower-cased,
	// regardless of vocabulary.
	conceptClass string
	domain       string
	standardOnly bool
	synonyms     bool
}

func (s conceptSearch) run(ctx context.Context, insp *inspector.Inspector, keyword string, returnColumns []string) (*inspector.Results, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("%w: keyword", ErrMissingArgument)
	}
	needed := []string{"concept", "vocabulary"}
	if s.synonyms {
		needed = append(needed, "concept_synonym")
	}
	t, err := tables(ctx, insp, needed...)
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, entityOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	var from strings.Builder
	fmt.Fprintf(&from, "%s c\n\t\tJOIN %s v ON c.vocabulary_id = v.vocabulary_id", t["concept"], t["vocabulary"])
	if s.synonyms {
		fmt.Fprintf(&from, "\n\t\tLEFT JOIN %s s ON c.concept_id = s.concept_id", t["concept_synonym"])
	}

	scope := "c.vocabulary_id IN " + b.in(strs(s.vocabularies...)...)
	if s.conceptClass != "" {
		scope = fmt.Sprintf("(%s OR LOWER(c.concept_class_id) = %s)", scope, b.arg(s.conceptClass))
	}
	where := []string{scope, "c.concept_class_id IS NOT NULL"}
	if s.domain != "" {
		where = append(where, "c.domain_id = "+b.arg(s.domain))
	}
	if s.standardOnly {
		where = append(where, "c.standard_concept = "+b.arg("S"))
	}
	match := "LOWER(c.concept_name) LIKE " + b.arg(likeArg(keyword))
	if s.synonyms {
		match = fmt.Sprintf("(%s OR LOWER(s.concept_synonym_name) LIKE %s)", match, b.arg(likeArg(keyword)))
	}
	where = append(where, match)

	// DISTINCT only allows ordering by selected columns.
	var order []string
	for _, name := range []string{"vocabulary_id", "concept_name"} {
		if len(returnColumns) == 0 || slices.Contains(returnColumns, name) {
			order = append(order, b.d.QuoteIdentifier(name))
		}
	}
	orderBy := ""
	if len(order) > 0 {
		orderBy = "ORDER BY " + strings.Join(order, ", ")
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM %s
		WHERE %s
		%s`,
		cols, from.String(), strings.Join(where, "\n\t\t\tAND "), orderBy)
	return insp.Execute(ctx, query, b.args...)
}

// ConditionConceptsForName finds SNOMED or MedDRA condition concepts whose
// name or synonym contains name (C02).
func ConditionConceptsForName(ctx context.Context, insp *inspector.Inspector, name string, returnColumns []string) (*inspector.Results, error) {
	return conceptSearch{
		vocabularies: []string{"SNOMED", "MedDRA"},
		conceptClass: "clinical finding",
		synonyms:     true,
	}.run(ctx, insp, name, returnColumns)
}

// ProcedureConceptsForKeyword finds standard procedure concepts whose name
// contains keyword (P02).
func ProcedureConceptsForKeyword(ctx context.Context, insp *inspector.Inspector, keyword string, returnColumns []string) (*inspector.Results, error) {
	return conceptSearch{
		vocabularies: []string{"SNOMED", "ICD9Proc", "ICD10PCS", "CPT4", "HCPCS"},
		domain:       "Procedure",
		standardOnly: true,
	}.run(ctx, insp, keyword, returnColumns)
}

// ObservationConceptsForKeyword finds standard LOINC and UCUM concepts whose
// name contains keyword (O1).
func ObservationConceptsForKeyword(ctx context.Context, insp *inspector.Inspector, keyword string, returnColumns []string) (*inspector.Results, error) {
	return conceptSearch{
		vocabularies: []string{"LOINC", "UCUM"},
		standardOnly: true,
	}.run(ctx, insp, keyword, returnColumns)
}
