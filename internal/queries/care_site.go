package queries

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

var facilityOutputs = []output{
	{"place_of_service", "c.concept_name"},
	{"place_of_service_concept_id", "cs.place_of_service_concept_id"},
	{"facility_count", "COUNT(cs.care_site_id)"},
}

// FacilityCountsByType counts care sites per place of service (CS01).
func FacilityCountsByType(ctx context.Context, insp *inspector.Inspector, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "care_site", "concept")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, facilityOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s cs
		JOIN %s c ON cs.place_of_service_concept_id = c.concept_id
		GROUP BY cs.place_of_service_concept_id, c.concept_name
		ORDER BY cs.place_of_service_concept_id`,
		cols, t["care_site"], t["concept"])
	return insp.Execute(ctx, query, b.args...)
}

var careSitePatientOutputs = []output{
	{"place_of_service", "c.concept_name"},
	{"place_of_service_concept_id", "cs.place_of_service_concept_id"},
	{"patient_count", "COUNT(p.person_id)"},
}

// PatientCountsByCareSiteType counts persons per place of service of their
// care site (CS02).
func PatientCountsByCareSiteType(ctx context.Context, insp *inspector.Inspector, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "person", "care_site", "concept")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, careSitePatientOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s cs ON p.care_site_id = cs.care_site_id
		JOIN %s c ON cs.place_of_service_concept_id = c.concept_id
		GROUP BY cs.place_of_service_concept_id, c.concept_name
		ORDER BY cs.place_of_service_concept_id`,
		cols, t["person"], t["care_site"], t["concept"])
	return insp.Execute(ctx, query, b.args...)
}
