package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/catload/internal/catfile"
)

var (
	validOutputs    = []string{"auto", "text", "json", "yaml"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Catalogue == nil {
		return fmt.Errorf("catalogue configuration is required")
	}
	if err := c.Catalogue.Validate(); err != nil {
		return err
	}
	if !oneOf(c.Output, validOutputs) {
		return fmt.Errorf("invalid output format %q (valid: %s)", c.Output, strings.Join(validOutputs, ", "))
	}
	if !oneOf(c.LogLevel, validLogLevels) {
		return fmt.Errorf("invalid log level %q (valid: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !oneOf(c.LogFormat, validLogFormats) {
		return fmt.Errorf("invalid log format %q (valid: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative, got %s", c.Heartbeat)
	}
	if c.Target != nil {
		if err := c.Target.Validate(); err != nil {
			return fmt.Errorf("invalid target configuration: %w", err)
		}
	}
	return nil
}

// ValidateFiles checks that the catalogue documentation exists.
// Only commands that read the catalogue call this, so help and version
// work from any directory.
func (c *Config) ValidateFiles() error {
	path := c.Catalogue.ReadMePath()
	if _, err := catfile.Resolve(filepath.Dir(path), filepath.Base(path)); err != nil {
		return fmt.Errorf("catalogue documentation does not exist: %s\nHint: Set catalogue.dir in catload.yaml or use --catalogue-dir", path)
	}
	return nil
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
