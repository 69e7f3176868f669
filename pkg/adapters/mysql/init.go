// Package mysql provides a MySQL/MariaDB database adapter for catload.
//
// This file registers the adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/catload/pkg/adapters/mysql"
package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/catload/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	adapter.Register("mariadb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
