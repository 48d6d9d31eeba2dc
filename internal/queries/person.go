package queries

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

// personFilter renders an optional person_id restriction.
func personFilter(b *builder, column string, personIDs []int64) string {
	if len(personIDs) == 0 {
		return ""
	}
	return fmt.Sprintf("WHERE %s IN %s", column, b.in(int64s(personIDs)...))
}

var genderCountOutputs = []output{
	{"gender_concept_id", "p.gender_concept_id"},
	{"gender", "c.concept_name"},
	{"count", "COUNT(p.person_id)"},
}

// PatientCountsByGender counts persons per gender (PE03). A non-empty
// personIDs restricts the count to those persons.
func PatientCountsByGender(ctx context.Context, insp *inspector.Inspector, personIDs []int64, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "person", "concept")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, genderCountOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s c ON p.gender_concept_id = c.concept_id
		%s
		GROUP BY p.gender_concept_id, c.concept_name
		ORDER BY p.gender_concept_id`,
		cols, t["person"], t["concept"], personFilter(b, "p.person_id", personIDs))
	return insp.Execute(ctx, query, b.args...)
}

var yearOfBirthOutputs = []output{
	{"year_of_birth", "p.year_of_birth"},
	{"count", "COUNT(p.person_id)"},
}

// PatientCountsByYearOfBirth counts persons per year of birth (PE06).
func PatientCountsByYearOfBirth(ctx context.Context, insp *inspector.Inspector, personIDs []int64, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "person")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, yearOfBirthOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		%s
		GROUP BY p.year_of_birth
		ORDER BY p.year_of_birth`,
		cols, t["person"], personFilter(b, "p.person_id", personIDs))
	return insp.Execute(ctx, query, b.args...)
}

var stateOutputs = []output{
	{"state", "l.state"},
	{"count", "COUNT(p.person_id)"},
}

// PatientCountsByResidenceState counts persons per state of residence
// (PE07). Persons without a location are not counted.
func PatientCountsByResidenceState(ctx context.Context, insp *inspector.Inspector, personIDs []int64, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "person", "location")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, stateOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s l ON p.location_id = l.location_id
		%s
		GROUP BY l.state
		ORDER BY l.state`,
		cols, t["person"], t["location"], personFilter(b, "p.person_id", personIDs))
	return insp.Execute(ctx, query, b.args...)
}

var zipOutputs = []output{
	{"state", "l.state"},
	{"zip", "l.zip"},
	{"count", "COUNT(p.person_id)"},
}

// PatientCountsByZipCode counts persons per state and zip code (PE08).
func PatientCountsByZipCode(ctx context.Context, insp *inspector.Inspector, personIDs []int64, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "person", "location")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, zipOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s l ON p.location_id = l.location_id
		%s
		GROUP BY l.state, l.zip
		ORDER BY l.state, l.zip`,
		cols, t["person"], t["location"], personFilter(b, "p.person_id", personIDs))
	return insp.Execute(ctx, query, b.args...)
}

var yearAndGenderOutputs = []output{
	{"gender_concept_id", "p.gender_concept_id"},
	{"gender", "c.concept_name"},
	{"year_of_birth", "p.year_of_birth"},
	{"count", "COUNT(p.person_id)"},
}

// PatientCountsByYearOfBirthAndGender counts persons per gender, stratified
// by year of birth (PE09).
func PatientCountsByYearOfBirthAndGender(ctx context.Context, insp *inspector.Inspector, personIDs []int64, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "person", "concept")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, yearAndGenderOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s c ON p.gender_concept_id = c.concept_id
		%s
		GROUP BY p.gender_concept_id, c.concept_name, p.year_of_birth
		ORDER BY c.concept_name, p.year_of_birth`,
		cols, t["person"], t["concept"], personFilter(b, "p.person_id", personIDs))
	return insp.Execute(ctx, query, b.args...)
}
