// Package dialect provides SQL dialect configuration used to build queries
// portably across the supported database engines.
//
// Concrete dialects are registered from pkg/adapters/*/dialect packages.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/inspectomop/pkg/core"
)

// Dialect wraps the static configuration of a SQL dialect with the
// formatting behavior built on it.
type Dialect struct {
	core.DialectConfig
}

// New creates a dialect from its static configuration.
func New(cfg core.DialectConfig) *Dialect {
	if cfg.Identifiers.Quote == "" {
		cfg.Identifiers = core.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`}
	}
	return &Dialect{DialectConfig: cfg}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// Placeholders returns n comma separated placeholders starting at index start.
func (d *Dialect) Placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.FormatPlaceholder(start + i)
	}
	return strings.Join(parts, ", ")
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QualifiedName returns the quoted schema.name reference.
// An empty schema yields only the quoted name.
func (d *Dialect) QualifiedName(schema, name string) string {
	if schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(name)
}
