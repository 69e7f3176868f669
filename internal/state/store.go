// Package state records catalogue load runs in a local SQLite database.
package state

import "github.com/leapstack-labs/catload/pkg/core"

// Type aliases so callers can stay within this package.
type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run
)

// Run status constants re-exported from pkg/core.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
	RunStatusCancelled = core.RunStatusCancelled
)

var _ Store = (*SQLiteStore)(nil)
