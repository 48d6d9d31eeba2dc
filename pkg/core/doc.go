// Package core defines the shared language of the inspectomop system.
//
// This package contains:
//   - Connection and reflection data types (AdapterConfig, Column, TableMetadata, Rows)
//   - Static dialect configuration (DialectConfig)
//   - The OMOP CDM table categories and their fixed membership
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
