package testutil

import (
	"context"
	"database/sql"
	"testing"
)

// OMOPSchema creates a small OMOP CDM subset. Date columns are declared the
// loose way real SQLite extracts declare them.
var OMOPSchema = []string{
	`CREATE TABLE vocabulary (
		vocabulary_id TEXT PRIMARY KEY,
		vocabulary_name TEXT NOT NULL,
		vocabulary_reference TEXT,
		vocabulary_version TEXT,
		vocabulary_concept_id INTEGER
	)`,
	`CREATE TABLE concept (
		concept_id INTEGER PRIMARY KEY,
		concept_name TEXT NOT NULL,
		domain_id TEXT NOT NULL,
		vocabulary_id TEXT NOT NULL,
		concept_class_id TEXT,
		standard_concept TEXT,
		concept_code TEXT NOT NULL,
		valid_start_date TEXT,
		valid_end_date TEXT,
		invalid_reason TEXT
	)`,
	`CREATE TABLE concept_synonym (
		concept_id INTEGER NOT NULL,
		concept_synonym_name TEXT NOT NULL,
		language_concept_id INTEGER
	)`,
	`CREATE TABLE concept_ancestor (
		ancestor_concept_id INTEGER NOT NULL,
		descendant_concept_id INTEGER NOT NULL,
		min_levels_of_separation INTEGER,
		max_levels_of_separation INTEGER,
		PRIMARY KEY (ancestor_concept_id, descendant_concept_id)
	)`,
	`CREATE TABLE location (
		location_id INTEGER PRIMARY KEY,
		address_1 TEXT,
		city TEXT,
		state TEXT,
		zip TEXT
	)`,
	`CREATE TABLE care_site (
		care_site_id INTEGER PRIMARY KEY,
		care_site_name TEXT,
		place_of_service_concept_id INTEGER,
		location_id INTEGER
	)`,
	`CREATE TABLE person (
		person_id INTEGER PRIMARY KEY,
		gender_concept_id INTEGER NOT NULL,
		year_of_birth INTEGER NOT NULL,
		birth_datetime TEXT,
		location_id INTEGER,
		care_site_id INTEGER,
		person_source_value TEXT
	)`,
	`CREATE TABLE death (
		person_id INTEGER,
		death_date TEXT,
		death_datetime TEXT,
		cause_concept_id INTEGER
	)`,
	`CREATE TABLE payer_plan_period (
		payer_plan_period_id INTEGER PRIMARY KEY,
		person_id INTEGER NOT NULL,
		payer_plan_period_start_date DATE NOT NULL,
		payer_plan_period_end_date DATE NOT NULL,
		plan_source_value TEXT
	)`,
	`CREATE TABLE cdm_source (
		cdm_source_name TEXT,
		cdm_version TEXT,
		cdm_release_date TEXT
	)`,
	`CREATE TABLE scratch_notes (
		note TEXT
	)`,
}

// OMOPData fills OMOPSchema with a handful of persons and concepts.
var OMOPData = []string{
	`INSERT INTO vocabulary VALUES
		('Gender', 'OMOP Gender', 'OMOP generated', NULL, 44819108),
		('SNOMED', 'Systematic Nomenclature of Medicine', 'IHTSDO', '2023-01-31', 44819097),
		('RxNorm', 'RxNorm', 'NLM', '2023-02-06', 44819104),
		('LOINC', 'Logical Observation Identifiers Names and Codes', 'Regenstrief', '2.74', 44819102),
		('CPT4', 'Current Procedural Terminology version 4', 'AMA', '2023', 44819100),
		('Place of Service', 'Place of Service Codes', 'CMS', NULL, 44819110)`,
	`INSERT INTO concept VALUES
		(8507, 'MALE', 'Gender', 'Gender', 'Gender', 'S', 'M', '1970-01-01', '2099-12-31', NULL),
		(8532, 'FEMALE', 'Gender', 'Gender', 'Gender', 'S', 'F', '1970-01-01', '2099-12-31', NULL),
		(4329847, 'Myocardial infarction', 'Condition', 'SNOMED', 'Clinical Finding', 'S', '22298006', '1970-01-01', '2099-12-31', NULL),
		(312327, 'Acute myocardial infarction', 'Condition', 'SNOMED', 'Clinical Finding', 'S', '57054005', '1970-01-01', '2099-12-31', NULL),
		(201826, 'Type 2 diabetes mellitus', 'Condition', 'SNOMED', 'Clinical Finding', 'S', '44054006', '1970-01-01', '2099-12-31', NULL),
		(1503297, 'metformin', 'Drug', 'RxNorm', 'Ingredient', 'S', '6809', '1970-01-01', '2099-12-31', NULL),
		(1503328, 'metformin hydrochloride 500 MG Oral Tablet', 'Drug', 'RxNorm', 'Clinical Drug', 'S', '861007', '1970-01-01', '2099-12-31', NULL),
		(1503329, 'metformin hydrochloride 850 MG Oral Tablet', 'Drug', 'RxNorm', 'Clinical Drug', 'S', '861010', '1970-01-01', '2099-12-31', NULL),
		(2107068, 'Coronary artery bypass, using arterial graft(s); single arterial graft', 'Procedure', 'CPT4', 'CPT4', 'S', '33533', '1970-01-01', '2099-12-31', NULL),
		(4336464, 'Coronary artery bypass graft', 'Procedure', 'SNOMED', 'Procedure', 'S', '232717009', '1970-01-01', '2099-12-31', NULL),
		(3028437, 'Cholesterol in LDL [Mass/volume] in Serum or Plasma', 'Measurement', 'LOINC', 'Lab Test', 'S', '13457-7', '1970-01-01', '2099-12-31', NULL),
		(3027114, 'Cholesterol [Mass/volume] in Serum or Plasma', 'Measurement', 'LOINC', 'Lab Test', 'S', '2093-3', '1970-01-01', '2099-12-31', NULL),
		(8756, 'Outpatient Hospital', 'Visit', 'Place of Service', 'Place of Service', 'S', '22', '1970-01-01', '2099-12-31', NULL),
		(8940, 'Office', 'Visit', 'Place of Service', 'Place of Service', 'S', '11', '1970-01-01', '2099-12-31', NULL)`,
	`INSERT INTO concept_synonym VALUES
		(4329847, 'Heart attack', 4180186),
		(201826, 'Diabetes mellitus type 2', 4180186),
		(4336464, 'CABG', 4180186)`,
	`INSERT INTO concept_ancestor VALUES
		(1503297, 1503297, 0, 0),
		(1503297, 1503328, 1, 1),
		(1503297, 1503329, 1, 1)`,
	`INSERT INTO location VALUES
		(1, '77 Massachusetts Ave', 'Cambridge', 'MA', '02139'),
		(2, '55 Fruit St', 'Boston', 'MA', '02114'),
		(3, '350 5th Ave', 'New York', 'NY', '10001')`,
	`INSERT INTO care_site VALUES
		(10, 'General Hospital', 8756, 2),
		(11, 'Main Street Clinic', 8940, 1)`,
	`INSERT INTO person VALUES
		(1, 8507, 1950, '1950-04-12 00:00:00', 1, 10, 'P-001'),
		(2, 8532, 1950, '1950-07-30 00:00:00', 1, 10, 'P-002'),
		(3, 8532, 1962, '1962-01-05 00:00:00', 2, 11, 'P-003'),
		(4, 8507, 1962, '1962-11-19 00:00:00', 3, 11, 'P-004'),
		(5, 8532, 1975, '1975-03-02 00:00:00', 3, 10, 'P-005')`,
	`INSERT INTO death VALUES
		(4, '2020-02-14', '2020-02-14 08:30:00', 4329847)`,
	`INSERT INTO payer_plan_period VALUES
		(1, 1, '2010-01-01', '2012-06-30', 'HMO'),
		(2, 2, '2015-01-01', '2015-12-31', 'PPO'),
		(3, 3, '2008-01-01', '2018-06-01', 'HMO'),
		(4, 4, '2019-01-01', '2020-01-01', 'PPO'),
		(5, 5, '2001-01-01', '2004-01-01', 'Medicare')`,
	`INSERT INTO cdm_source VALUES ('Test CDM', 'v5.4', '2024-05-01')`,
}

// SeedOMOP creates and fills the OMOP fixture on db.
func SeedOMOP(t testing.TB, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	for _, stmts := range [][]string{OMOPSchema, OMOPData} {
		for _, stmt := range stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				t.Fatalf("seeding OMOP fixture: %v\n%s", err, stmt)
			}
		}
	}
}
