// Package dialect provides the SQLite SQL dialect definition.
// This package is lightweight and has no database driver dependencies.
package dialect

import (
	"github.com/leapstack-labs/inspectomop/pkg/core"
	"github.com/leapstack-labs/inspectomop/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect configuration.
// SQLite has no native date types, so reflection coerces *date and
// *datetime columns.
var SQLite = dialect.New(core.DialectConfig{
	Name:            "sqlite",
	Identifiers:     core.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`},
	DefaultSchema:   "main",
	Placeholder:     core.PlaceholderQuestion,
	DateColumnTypes: true,
})
