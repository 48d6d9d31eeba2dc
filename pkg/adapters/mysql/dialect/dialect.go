// Package dialect provides the MySQL SQL dialect definition.
// This package is lightweight and has no database driver dependencies.
package dialect

import (
	"github.com/leapstack-labs/inspectomop/pkg/core"
	"github.com/leapstack-labs/inspectomop/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// MySQL is the MySQL dialect configuration. Its schema is the connected
// database, so DefaultSchema is left empty.
var MySQL = dialect.New(core.DialectConfig{
	Name:        "mysql",
	Identifiers: core.IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "``"},
	Placeholder: core.PlaceholderQuestion,
})
