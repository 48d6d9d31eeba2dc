// Package postgres provides a PostgreSQL database adapter for inspectomop.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/inspectomop/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/inspectomop/pkg/adapter"

	// Import dialect to ensure it's registered
	_ "github.com/leapstack-labs/inspectomop/pkg/adapters/postgres/dialect"
)

func init() {
	adapter.Register("postgres", func(l *slog.Logger) adapter.Adapter { return New(l) })
}
