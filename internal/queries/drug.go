package queries

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

var ingredientDrugOutputs = []output{
	{"ingredient_concept_id", "a.concept_id"},
	{"ingredient_name", "a.concept_name"},
	{"ingredient_concept_code", "a.concept_code"},
	{"ingredient_concept_class_id", "a.concept_class_id"},
	{"drug_concept_id", "d.concept_id"},
	{"drug_name", "d.concept_name"},
	{"drug_concept_code", "d.concept_code"},
	{"drug_concept_class_id", "d.concept_class_id"},
}

// DrugsForIngredientConceptID returns every drug that descends from an
// ingredient concept, the ingredient itself included (D04).
func DrugsForIngredientConceptID(ctx context.Context, insp *inspector.Inspector, conceptID int64, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "concept", "concept_ancestor")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, ingredientDrugOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s ca
		JOIN %s a ON ca.ancestor_concept_id = a.concept_id
		JOIN %s d ON ca.descendant_concept_id = d.concept_id
		WHERE ca.ancestor_concept_id = %s
		ORDER BY d.concept_id`,
		cols, t["concept_ancestor"], t["concept"], t["concept"], b.arg(conceptID))
	return insp.Execute(ctx, query, b.args...)
}
