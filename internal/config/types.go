// Package config provides shared configuration types for catload.
// This package is decoupled from CLI concerns so the engine can be driven
// from tests or other front ends without cobra or koanf.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/catload/pkg/adapter"
	"github.com/leapstack-labs/catload/pkg/readme"
)

// CatalogueConfig describes one catalogue: where its documentation and data
// live, which table of the ReadMe to read, and where the rows go.
type CatalogueConfig struct {
	Name  string `koanf:"name"`  // catalogue designation, e.g. I/239
	Table string `koanf:"table"` // destination table

	Dir    string `koanf:"dir"`    // directory holding the ReadMe and data file
	ReadMe string `koanf:"readme"` // documentation file, relative to Dir
	Data   string `koanf:"data"`   // data file, relative to Dir; also the ReadMe section name

	ExpectedFields int    `koanf:"expected_fields"`
	Unique         string `koanf:"unique"` // raw uniqueness clause appended to CREATE TABLE

	Marker       string `koanf:"marker"`
	HeaderLines  int    `koanf:"header_lines"`
	Encoding     string `koanf:"encoding"`      // ReadMe text encoding (utf-8, latin1, ...)
	RecordLength int    `koanf:"record_length"` // bytes per data record; 0 disables the check
}

// ReadMePath returns the documentation path joined onto Dir.
func (c *CatalogueConfig) ReadMePath() string {
	return joinDir(c.Dir, c.ReadMe)
}

// DataPath returns the data file path joined onto Dir.
func (c *CatalogueConfig) DataPath() string {
	return joinDir(c.Dir, c.Data)
}

// SectionName is the data file token looked up in the ReadMe. A compressed
// data file is documented under its uncompressed name.
func (c *CatalogueConfig) SectionName() string {
	return strings.TrimSuffix(filepath.Base(c.Data), ".gz")
}

// ParseOptions converts the catalogue settings into parser options.
func (c *CatalogueConfig) ParseOptions() readme.Options {
	return readme.Options{
		DataFile:    c.SectionName(),
		Marker:      c.Marker,
		HeaderLines: c.HeaderLines,
	}
}

// Validate checks that the catalogue has enough information to be parsed.
func (c *CatalogueConfig) Validate() error {
	if c.Table == "" {
		return fmt.Errorf("catalogue table is required")
	}
	if c.ReadMe == "" {
		return fmt.Errorf("catalogue readme is required")
	}
	if c.Data == "" {
		return fmt.Errorf("catalogue data file is required")
	}
	if c.ExpectedFields < 1 {
		return fmt.Errorf("catalogue expected_fields must be at least 1, got %d", c.ExpectedFields)
	}
	if c.HeaderLines < 0 {
		return fmt.Errorf("catalogue header_lines must not be negative, got %d", c.HeaderLines)
	}
	return nil
}

func joinDir(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type     string `koanf:"type"` // mysql, mariadb
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// DSN is a connection string in key=value;key=value form. Values decoded
	// from it override the discrete fields above.
	DSN string `koanf:"dsn"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// AdapterConfig converts the target into the adapter connection settings.
func (t *TargetConfig) AdapterConfig() adapter.Config {
	opts := make(map[string]string, len(t.Options))
	for k, v := range t.Options {
		opts[k] = v
	}
	return adapter.Config{
		Type:     strings.ToLower(t.Type),
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Options:  opts,
	}
}

// Redacted returns a printable description of the target without secrets.
func (t *TargetConfig) Redacted() string {
	return fmt.Sprintf("%s://%s@%s:%d/%s", t.Type, t.User, t.Host, t.Port, t.Database)
}
