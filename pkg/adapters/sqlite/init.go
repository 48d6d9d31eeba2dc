// Package sqlite provides a SQLite database adapter for inspectomop.
//
// This file registers the SQLite adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/inspectomop/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/inspectomop/pkg/adapter"

	// Import dialect to ensure it's registered
	_ "github.com/leapstack-labs/inspectomop/pkg/adapters/sqlite/dialect"
)

func init() {
	adapter.Register("sqlite", func(l *slog.Logger) adapter.Adapter { return New(l) })
}
