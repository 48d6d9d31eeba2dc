package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

// ArgKind is the kind of positional argument a catalog query takes.
type ArgKind int

// Argument kinds.
const (
	ArgNone ArgKind = iota
	ArgConceptIDs
	ArgConceptID
	ArgKeyword
)

// String returns the argument placeholder shown in usage text.
func (k ArgKind) String() string {
	switch k {
	case ArgConceptIDs:
		return "concept_id..."
	case ArgConceptID:
		return "concept_id"
	case ArgKeyword:
		return "keyword"
	default:
		return ""
	}
}

// Request carries the arguments of a catalog query run.
type Request struct {
	ConceptIDs []int64
	Keyword    string
	PersonIDs  []int64
	Columns    []string
}

// Entry describes a named query of the catalog.
type Entry struct {
	Name    string
	Code    string
	Domain  string
	Summary string
	Arg     ArgKind
	// PersonFilter is set when the query accepts Request.PersonIDs.
	PersonFilter bool
	Columns      []string

	run func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error)
}

// Run executes the query and materializes its result.
func (e Entry) Run(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
	switch e.Arg {
	case ArgConceptIDs:
		if len(req.ConceptIDs) == 0 {
			return nil, fmt.Errorf("%w: %s needs one or more concept ids", ErrMissingArgument, e.Name)
		}
	case ArgConceptID:
		if len(req.ConceptIDs) != 1 {
			return nil, fmt.Errorf("%w: %s needs exactly one concept id", ErrMissingArgument, e.Name)
		}
	case ArgKeyword:
		if req.Keyword == "" {
			return nil, fmt.Errorf("%w: %s needs a keyword", ErrMissingArgument, e.Name)
		}
	}
	return e.run(ctx, insp, req)
}

func frame(res *inspector.Results, err error) (*inspector.Frame, error) {
	if err != nil {
		return nil, err
	}
	return res.Frame()
}

var catalog = []Entry{
	{
		Name: "concepts_for_concept_ids", Code: "G01", Domain: "general", Arg: ArgConceptIDs,
		Summary: "Concept and vocabulary details for concept ids",
		Columns: outputNames(conceptOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(ConceptsForConceptIDs(ctx, insp, req.ConceptIDs, req.Columns))
		},
	},
	{
		Name: "synonyms_for_concept_ids", Code: "G04", Domain: "general", Arg: ArgConceptIDs,
		Summary: "Synonyms of concept ids",
		Columns: outputNames(synonymOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(SynonymsForConceptIDs(ctx, insp, req.ConceptIDs, req.Columns))
		},
	},
	{
		Name: "patient_counts_by_gender", Code: "PE03", Domain: "person", PersonFilter: true,
		Summary: "Number of patients grouped by gender",
		Columns: outputNames(genderCountOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(PatientCountsByGender(ctx, insp, req.PersonIDs, req.Columns))
		},
	},
	{
		Name: "patient_counts_by_year_of_birth", Code: "PE06", Domain: "person", PersonFilter: true,
		Summary: "Number of patients grouped by year of birth",
		Columns: outputNames(yearOfBirthOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(PatientCountsByYearOfBirth(ctx, insp, req.PersonIDs, req.Columns))
		},
	},
	{
		Name: "patient_counts_by_residence_state", Code: "PE07", Domain: "person", PersonFilter: true,
		Summary: "Number of patients grouped by state of residence",
		Columns: outputNames(stateOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(PatientCountsByResidenceState(ctx, insp, req.PersonIDs, req.Columns))
		},
	},
	{
		Name: "patient_counts_by_zip_code", Code: "PE08", Domain: "person", PersonFilter: true,
		Summary: "Number of patients grouped by zip code of residence",
		Columns: outputNames(zipOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(PatientCountsByZipCode(ctx, insp, req.PersonIDs, req.Columns))
		},
	},
	{
		Name: "patient_counts_by_year_of_birth_and_gender", Code: "PE09", Domain: "person", PersonFilter: true,
		Summary: "Number of patients by gender, stratified by year of birth",
		Columns: outputNames(yearAndGenderOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(PatientCountsByYearOfBirthAndGender(ctx, insp, req.PersonIDs, req.Columns))
		},
	},
	{
		Name: "drugs_for_ingredient_concept_id", Code: "D04", Domain: "drug", Arg: ArgConceptID,
		Summary: "Drugs containing an ingredient",
		Columns: outputNames(ingredientDrugOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(DrugsForIngredientConceptID(ctx, insp, req.ConceptIDs[0], req.Columns))
		},
	},
	{
		Name: "condition_concepts_for_name", Code: "C02", Domain: "condition", Arg: ArgKeyword,
		Summary: "Condition concepts matching a name or synonym",
		Columns: outputNames(entityOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(ConditionConceptsForName(ctx, insp, req.Keyword, req.Columns))
		},
	},
	{
		Name: "procedure_concepts_for_keyword", Code: "P02", Domain: "procedure", Arg: ArgKeyword,
		Summary: "Standard procedure concepts matching a keyword",
		Columns: outputNames(entityOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(ProcedureConceptsForKeyword(ctx, insp, req.Keyword, req.Columns))
		},
	},
	{
		Name: "observation_concepts_for_keyword", Code: "O1", Domain: "observation", Arg: ArgKeyword,
		Summary: "Standard LOINC and UCUM concepts matching a keyword",
		Columns: outputNames(entityOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(ObservationConceptsForKeyword(ctx, insp, req.Keyword, req.Columns))
		},
	},
	{
		Name: "facility_counts_by_type", Code: "CS01", Domain: "care_site",
		Summary: "Care site counts per place of service",
		Columns: outputNames(facilityOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(FacilityCountsByType(ctx, insp, req.Columns))
		},
	},
	{
		Name: "patient_counts_by_care_site_type", Code: "CS02", Domain: "care_site",
		Summary: "Patient counts per care site place of service",
		Columns: outputNames(careSitePatientOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(PatientCountsByCareSiteType(ctx, insp, req.Columns))
		},
	},
	{
		Name: "counts_by_years_of_coverage", Code: "PP01", Domain: "payer_plan",
		Summary: "Payer plan periods by whole years of coverage",
		Columns: []string{"coverage_years", "count"},
		run: func(ctx context.Context, insp *inspector.Inspector, _ Request) (*inspector.Frame, error) {
			return CountsByYearsOfCoverage(ctx, insp)
		},
	},
	{
		Name: "patient_distribution_by_plan_type", Code: "PP02", Domain: "payer_plan",
		Summary: "Payer plan periods per plan type",
		Columns: outputNames(planTypeOutputs),
		run: func(ctx context.Context, insp *inspector.Inspector, req Request) (*inspector.Frame, error) {
			return frame(PatientDistributionByPlanType(ctx, insp, req.Columns))
		},
	},
}

// Catalog returns every named query, sorted by domain then name.
func Catalog() []Entry {
	out := append([]Entry(nil), catalog...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Domain != out[j].Domain {
			return out[i].Domain < out[j].Domain
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Lookup finds a query by name or by its OMOP-Queries code (e.g. "PE03").
func Lookup(name string) (Entry, bool) {
	for _, e := range catalog {
		if e.Name == name || e.Code == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the query names, sorted.
func Names() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}
