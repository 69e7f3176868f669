// Package config provides configuration management for the catload CLI.
//
// This package extends the shared configuration types from internal/config
// with CLI-specific fields and functionality. The shared types are
// re-exported here via type aliases for convenience.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/catload/internal/config"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = sharedcfg.TargetConfig

// CatalogueConfig is an alias for the shared catalogue configuration.
type CatalogueConfig = sharedcfg.CatalogueConfig

// Config holds all CLI configuration options.
type Config struct {
	Catalogue *CatalogueConfig `koanf:"catalogue"`
	Target    *TargetConfig    `koanf:"target"`

	// Connection is the legacy -D connection string. It is folded into
	// Target after loading and wins over every other target source.
	Connection string `koanf:"database"`

	StagingDir string        `koanf:"staging_dir"`
	StatePath  string        `koanf:"state_path"`
	Update     bool          `koanf:"update"`
	Hidden     bool          `koanf:"hidden"`
	Verbose    bool          `koanf:"verbose"`
	Output     string        `koanf:"output"`
	LogLevel   string        `koanf:"log_level"`
	LogFormat  string        `koanf:"log_format"`
	Heartbeat  time.Duration `koanf:"heartbeat"`

	// ProjectRoot is the directory paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".catload/state.db"
	DefaultOutput    = "auto" // text, styled only on a TTY
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultHeartbeat = 30 * time.Second
)
