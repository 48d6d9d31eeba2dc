package core

import (
	"fmt"
	"strings"
)

// Category is one of the six fixed OMOP CDM table groups.
type Category int

// OMOP CDM table categories, in display order.
const (
	CategoryClinical Category = iota
	CategoryVocabulary
	CategoryDerivedElement
	CategoryHealthSystem
	CategoryHealthEconomic
	CategoryMetadata
)

var categoryKeys = [...]string{
	CategoryClinical:       "clinical",
	CategoryVocabulary:     "vocabulary",
	CategoryDerivedElement: "derived_element",
	CategoryHealthSystem:   "health_system",
	CategoryHealthEconomic: "health_economic",
	CategoryMetadata:       "metadata",
}

var categoryTitles = [...]string{
	CategoryClinical:       "Clinical",
	CategoryVocabulary:     "Vocabularies",
	CategoryDerivedElement: "Derived Elements",
	CategoryHealthSystem:   "Health System",
	CategoryHealthEconomic: "Health Economics",
	CategoryMetadata:       "Metadata",
}

// categoryTables is the static membership of each category.
var categoryTables = [...][]string{
	CategoryClinical: {
		"person", "observation_period", "specimen", "death", "visit_occurrence",
		"visit_detail", "procedure_occurrence", "drug_exposure", "device_exposure",
		"condition_occurrence", "measurement", "note", "note_nlp", "observation",
		"fact_relationship",
	},
	CategoryVocabulary: {
		"concept", "vocabulary", "domain", "concept_class", "concept_relationship",
		"relationship", "concept_synonym", "concept_ancestor", "source_to_concept_map",
		"drug_strength", "cohort_definition", "attribute_definition",
	},
	CategoryDerivedElement: {
		"cohort", "cohort_attribute", "drug_era", "dose_era", "condition_era",
	},
	CategoryHealthSystem: {
		"location", "care_site", "provider",
	},
	CategoryHealthEconomic: {
		"payer_plan_period", "cost",
	},
	CategoryMetadata: {
		"cdm_source", "metadata",
	},
}

// tableCategory is the reverse index of categoryTables.
var tableCategory = func() map[string]Category {
	m := make(map[string]Category)
	for c, names := range categoryTables {
		for _, name := range names {
			m[name] = Category(c)
		}
	}
	return m
}()

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryClinical,
		CategoryVocabulary,
		CategoryDerivedElement,
		CategoryHealthSystem,
		CategoryHealthEconomic,
		CategoryMetadata,
	}
}

// String returns the snake_case key of the category (e.g. "health_system").
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryKeys) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryKeys[c]
}

// Title returns the human readable name of the category.
func (c Category) Title() string {
	if c < 0 || int(c) >= len(categoryTitles) {
		return c.String()
	}
	return categoryTitles[c]
}

// CategoryTables returns a copy of the table names that belong to c.
func CategoryTables(c Category) []string {
	if c < 0 || int(c) >= len(categoryTables) {
		return nil
	}
	return append([]string(nil), categoryTables[c]...)
}

// CategoryOf returns the category a table name belongs to.
func CategoryOf(table string) (Category, bool) {
	c, ok := tableCategory[table]
	return c, ok
}

// ParseCategory resolves a category from its key, accepting dashes and
// the plural forms used by the original CDM documentation.
func ParseCategory(s string) (Category, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch key {
	case "vocabularies":
		key = "vocabulary"
	case "derived_elements":
		key = "derived_element"
	case "health_economics":
		key = "health_economic"
	}
	for c, k := range categoryKeys {
		if k == key {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
