package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/catload/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix prefixes every environment variable read by the loader.
// Nested keys use a double underscore: CATLOAD_CATALOGUE__TABLE.
const EnvPrefix = "CATLOAD_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps flag names whose config key is not simply the snake_case
// form of the flag.
var flagKeys = map[string]string{
	"catalogue-dir":   "catalogue.dir",
	"readme":          "catalogue.readme",
	"data":            "catalogue.data",
	"table":           "catalogue.table",
	"expected-fields": "catalogue.expected_fields",
	"unique":          "catalogue.unique",
	"encoding":        "catalogue.encoding",
	"record-length":   "catalogue.record_length",
	"state":           "state_path",
}

// pathFlags hold filesystem paths that are resolved against the CWD rather
// than the project root when given on the command line.
var pathFlags = []string{"catalogue-dir", "staging-dir", "state"}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for catload.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := intconfig.FindProjectRoot(cwd, maxUpwardSearchLevels); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]any {
	return map[string]any{
		"catalogue.name":            intconfig.DefaultCatalogueName,
		"catalogue.table":           intconfig.DefaultTable,
		"catalogue.readme":          intconfig.DefaultReadMe,
		"catalogue.data":            intconfig.DefaultDataFile,
		"catalogue.expected_fields": intconfig.DefaultExpectedFields,
		"catalogue.unique":          intconfig.DefaultUnique,
		"catalogue.record_length":   intconfig.DefaultRecordLength,
		"catalogue.encoding":        intconfig.DefaultEncoding,
		"state_path":                DefaultStateFile,
		"update":                    false,
		"hidden":                    false,
		"verbose":                   false,
		"output":                    DefaultOutput,
		"log_level":                 DefaultLogLevel,
		"log_format":                DefaultLogFormat,
		"heartbeat":                 DefaultHeartbeat.String(),
	}
}

// LoadConfig loads configuration from defaults, the config file,
// environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// Paths given as flags are relative to the CWD, not the project root.
	flagPaths := make(map[string]string)
	if flags != nil {
		for _, name := range pathFlags {
			f := flags.Lookup(name)
			if f == nil || !f.Changed || f.Value.String() == "" {
				continue
			}
			if abs, err := filepath.Abs(f.Value.String()); err == nil {
				flagPaths[name] = abs
			}
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = intconfig.FindConfigFile(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables
	// Transform: CATLOAD_CATALOGUE__TABLE -> catalogue.table
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths against the project root
	cfg.ProjectRoot = projectRoot
	if cfg.Catalogue == nil {
		cfg.Catalogue = &CatalogueConfig{}
	}
	intconfig.ApplyCatalogueDefaults(cfg.Catalogue)

	cfg.Catalogue.Dir = pickPath(flagPaths["catalogue-dir"], cfg.Catalogue.Dir, projectRoot)
	cfg.StagingDir = pickPath(flagPaths["staging-dir"], cfg.StagingDir, projectRoot)
	cfg.StatePath = pickPath(flagPaths["state"], cfg.StatePath, projectRoot)
	if cfg.Catalogue.Dir == "" {
		cfg.Catalogue.Dir = projectRoot
	}

	// 7. Build the target: config file fields, then its dsn, then -D
	target, err := buildTarget(cfg.Target, cfg.Connection)
	if err != nil {
		return nil, err
	}
	cfg.Target = target

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

func pickPath(fromFlag, fromConfig, root string) string {
	if fromFlag != "" {
		return fromFlag
	}
	return resolvePathRelativeTo(fromConfig, root)
}

func buildTarget(base *TargetConfig, connection string) (*TargetConfig, error) {
	if base == nil {
		base = &TargetConfig{}
	}
	expandTargetEnvVars(base)

	if connection == "" && base.DSN == "" && base.Database == "" {
		connection = intconfig.DefaultConnection
	}

	target, err := intconfig.ResolveTarget(base)
	if err != nil {
		return nil, fmt.Errorf("invalid target dsn: %w", err)
	}

	if connection != "" {
		fromConn, err := intconfig.ParseConnectionString(connection)
		if err != nil {
			return nil, fmt.Errorf("invalid --database connection string: %w", err)
		}
		target = intconfig.MergeTargetConfig(target, fromConn)
	}

	intconfig.ApplyTargetDefaults(target)
	return target, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.DSN = expandEnvVars(t.DSN)
}
