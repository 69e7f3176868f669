// Package core defines the shared language of catload.
//
// This package contains:
//   - Service interfaces (Adapter, Store)
//   - Connection configuration (AdapterConfig)
//   - Run history entities (Run, RunStatus)
//
// pkg/core imports only the standard library. All other packages depend
// on core, not the reverse.
package core
