// Package adapter provides the database adapter contract, a registry of
// adapter implementations and shared database/sql plumbing.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves from init().
package adapter

import "github.com/leapstack-labs/catload/pkg/core"

// Type aliases so that adapter implementations only need this package.
type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata
)
