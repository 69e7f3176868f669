package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrMalformedConnection is returned for connection strings that are not a
// sequence of key=value pairs.
var ErrMalformedConnection = errors.New("malformed connection string")

// connection is the decoded form of a key=value;key=value connection string.
// Keys follow the ODBC-style names used by existing catalogue loaders.
type connection struct {
	Database string            `mapstructure:"database"`
	Server   string            `mapstructure:"server"`
	UID      string            `mapstructure:"uid"`
	PWD      string            `mapstructure:"pwd"`
	Port     int               `mapstructure:"port"`
	Type     string            `mapstructure:"type"`
	Extra    map[string]string `mapstructure:",remain"`
}

// SplitConnectionString turns "a=b;c=d" into {a:b, c:d}. Keys are lowercased
// and trimmed; values keep inner whitespace. Empty segments are ignored.
func SplitConnectionString(s string) (map[string]string, error) {
	pairs := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: segment %q is not key=value", ErrMalformedConnection, part)
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs, nil
}

// ParseConnectionString decodes a connection string into a TargetConfig.
// Only keys present in s are set; unknown keys become driver options.
func ParseConnectionString(s string) (*TargetConfig, error) {
	pairs, err := SplitConnectionString(s)
	if err != nil {
		return nil, err
	}

	var conn connection
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &conn,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConnection, err)
	}

	t := &TargetConfig{
		Type:     conn.Type,
		Database: conn.Database,
		Host:     conn.Server,
		Port:     conn.Port,
		User:     conn.UID,
		Password: conn.PWD,
	}
	if len(conn.Extra) > 0 {
		t.Options = conn.Extra
	}
	return t, nil
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := &TargetConfig{
		Type:     base.Type,
		Database: base.Database,
		Host:     base.Host,
		Port:     base.Port,
		User:     base.User,
		Password: base.Password,
		DSN:      base.DSN,
		Options:  make(map[string]string),
	}
	for k, v := range base.Options {
		merged.Options[k] = v
	}

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.DSN != "" {
		merged.DSN = override.DSN
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}

	return merged
}

// ResolveTarget folds the target's DSN into its discrete fields.
func ResolveTarget(t *TargetConfig) (*TargetConfig, error) {
	if t == nil || t.DSN == "" {
		return t, nil
	}
	fromDSN, err := ParseConnectionString(t.DSN)
	if err != nil {
		return nil, err
	}
	return MergeTargetConfig(t, fromDSN), nil
}
