package config

import (
	"os"

	"github.com/leapstack-labs/catload/pkg/readme"
)

// Default configuration values. The catalogue defaults describe the
// Hipparcos main catalogue (I/239) as distributed by CDS.
const (
	DefaultCatalogueName  = "I/239"
	DefaultTable          = "Hipparcos"
	DefaultReadMe         = "ReadMe"
	DefaultDataFile       = "hip_main.dat"
	DefaultExpectedFields = 78
	DefaultUnique         = "UNIQUE KEY unique_key (`HIP`)"
	DefaultRecordLength   = 450
	DefaultEncoding       = "latin1"
	DefaultTargetType     = "mysql"
	DefaultTargetHost     = "localhost"
	DefaultTargetPort     = 3306
	DefaultTargetDatabase = "mysql"
	DefaultConnection     = "database=Analysis"
	PasswordEnv           = "MYSQLPASSWORD"
)

// ApplyCatalogueDefaults fills unset catalogue fields.
func ApplyCatalogueDefaults(c *CatalogueConfig) {
	if c == nil {
		return
	}
	if c.Name == "" {
		c.Name = DefaultCatalogueName
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.ReadMe == "" {
		c.ReadMe = DefaultReadMe
	}
	if c.Data == "" {
		c.Data = DefaultDataFile
	}
	if c.Marker == "" {
		c.Marker = readme.DefaultMarker
	}
	if c.HeaderLines == 0 {
		c.HeaderLines = readme.DefaultHeaderLines
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig.
// An unset user falls back to $USER.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	if t.Type == "" {
		t.Type = DefaultTargetType
	}
	if t.Host == "" {
		t.Host = DefaultTargetHost
	}
	if t.Port == 0 {
		t.Port = DefaultTargetPort
	}
	if t.Database == "" {
		t.Database = DefaultTargetDatabase
	}
	if t.User == "" {
		t.User = os.Getenv("USER")
	}
}
