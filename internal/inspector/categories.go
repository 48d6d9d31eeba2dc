package inspector

import (
	"context"

	"github.com/leapstack-labs/inspectomop/pkg/core"
)

// CategoryTables returns the reflected tables that belong to category c.
// CDM tables missing from the database are simply absent.
func (i *Inspector) CategoryTables(ctx context.Context, c core.Category) (map[string]*Table, error) {
	tables, err := i.Tables(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Table)
	for _, name := range core.CategoryTables(c) {
		if t, ok := tables[name]; ok {
			out[name] = t
		}
	}
	return out, nil
}

// ClinicalTables returns the reflected clinical data tables.
func (i *Inspector) ClinicalTables(ctx context.Context) (map[string]*Table, error) {
	return i.CategoryTables(ctx, core.CategoryClinical)
}

// VocabularyTables returns the reflected standardized vocabulary tables.
func (i *Inspector) VocabularyTables(ctx context.Context) (map[string]*Table, error) {
	return i.CategoryTables(ctx, core.CategoryVocabulary)
}

// DerivedElementTables returns the reflected derived element tables.
func (i *Inspector) DerivedElementTables(ctx context.Context) (map[string]*Table, error) {
	return i.CategoryTables(ctx, core.CategoryDerivedElement)
}

// HealthSystemTables returns the reflected health system tables.
func (i *Inspector) HealthSystemTables(ctx context.Context) (map[string]*Table, error) {
	return i.CategoryTables(ctx, core.CategoryHealthSystem)
}

// HealthEconomicsTables returns the reflected health economics tables.
func (i *Inspector) HealthEconomicsTables(ctx context.Context) (map[string]*Table, error) {
	return i.CategoryTables(ctx, core.CategoryHealthEconomic)
}

// MetadataTables returns the reflected CDM metadata tables.
func (i *Inspector) MetadataTables(ctx context.Context) (map[string]*Table, error) {
	return i.CategoryTables(ctx, core.CategoryMetadata)
}
