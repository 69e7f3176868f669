package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/catload/internal/cli/config"
	"github.com/leapstack-labs/catload/internal/cli/output"
	"github.com/leapstack-labs/catload/internal/cli/testutil"
	"github.com/leapstack-labs/catload/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command inside dir and returns stdout and stderr.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"version", "load", "schema", "history", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"database", "update", "hidden"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "D", cmd.PersistentFlags().Lookup("database").Shorthand)
	assert.Equal(t, "U", cmd.PersistentFlags().Lookup("update").Shorthand)
	assert.Equal(t, "H", cmd.PersistentFlags().Lookup("hidden").Shorthand)
}

func TestLoad_DryRun(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, stderr, err := runCLI(t, dir, "load")
	require.NoError(t, err, "stderr: %s", stderr)

	testutil.AssertNoANSI(t, stdout)
	assert.True(t, strings.HasPrefix(stdout, "catload load "), "output starts with the banner: %q", stdout)
	testutil.AssertContains(t, stdout, "Parameters: catalogue=J/X/1 table=Stars")
	testutil.AssertContains(t, stdout, "update=false")

	// Recognized column lines are echoed, the other table is skipped.
	testutil.AssertContains(t, stdout, "HIP       Identifier (HIP number)")
	testutil.AssertContains(t, stdout, "Vmag      ? Magnitude in Johnson V")
	testutil.AssertNotContains(t, stdout, "Sequence number")

	testutil.AssertContains(t, stdout, "DROP TABLE IF EXISTS `Stars`;")
	testutil.AssertContains(t, stdout, "CREATE TABLE IF NOT EXISTS `Stars` (")
	testutil.AssertContains(t, stdout, "UNIQUE KEY unique_key (`HIP`)")
	testutil.AssertContains(t, stdout, "LOAD DATA LOCAL INFILE '"+filepath.Join(dir, "staging", "stars.dat")+"'")
	testutil.AssertContains(t, stdout, "CASE WHEN SUBSTR(@Record,8,5) <> REPEAT(' ',5) THEN SUBSTR(@Record,8,5) END")
	testutil.AssertContains(t, stdout, "Dry run: use --update to execute.")
	assert.True(t, strings.HasSuffix(stdout, "Done.\n"), "output ends with Done.: %q", stdout)

	testutil.AssertNotContains(t, stdout, "Connecting to database")
	assert.NoFileExists(t, filepath.Join(dir, "staging", "stars.dat"))
}

func TestLoad_DryRunHidden(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, stderr, err := runCLI(t, dir, "load", "-H", "-D", "database=Analysis;uid=astro;pwd=secret")
	require.NoError(t, err, "stderr: %s", stderr)

	testutil.AssertContains(t, stdout, "Parameters: hidden")
	testutil.AssertNotContains(t, stdout, "secret")
	testutil.AssertNotContains(t, stdout, "astro")
}

func TestLoad_FieldCountMismatch(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, _, err := runCLI(t, dir, "load", "--expected-fields", "78")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsed 3 fields, expected 78")
}

func TestLoad_MissingCatalogue(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, _, err := runCLI(t, dir, "load", "--readme", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--catalogue-dir")
}

func TestLoad_UndocumentedDataFile(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, _, err := runCLI(t, dir, "load", "--data", "missing.dat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsed 0 fields, expected 3")
}

func TestSchema_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, stderr, err := runCLI(t, dir, "schema", "-o", "json")
	require.NoError(t, err, "stderr: %s", stderr)

	var out output.SchemaOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), "stdout: %s", stdout)

	assert.Equal(t, "J/X/1", out.Catalogue)
	assert.Equal(t, testutil.FixtureTable, out.Table)
	assert.Equal(t, "stars.dat", out.DataFile)
	require.Len(t, out.Fields, 3)

	assert.Equal(t, "HIP", out.Fields[0].Name)
	assert.Equal(t, 1, out.Fields[0].Start)
	assert.Equal(t, 6, out.Fields[0].End)
	assert.Equal(t, "Vmag", out.Fields[1].Name)
	assert.Equal(t, "mag", out.Fields[1].Units)
	assert.Equal(t, "Magnitude in Johnson V", out.Fields[1].Comment)
	assert.Equal(t, "Name", out.Fields[2].Name)
	assert.Equal(t, 11, out.Fields[2].Width)
}

func TestSchema_Text(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, stderr, err := runCLI(t, dir, "schema")
	require.NoError(t, err, "stderr: %s", stderr)

	testutil.AssertNoANSI(t, stdout)
	testutil.AssertContains(t, stdout, "J/X/1 Stars (stars.dat)")
	testutil.AssertContains(t, stdout, "SQL TYPE")
	testutil.AssertContains(t, stdout, "14-24")
	testutil.AssertContains(t, stdout, "3 fields")
}

func TestHistory_Empty(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	statePath := filepath.Join(t.TempDir(), "history", "state.db")

	stdout, stderr, err := runCLI(t, dir, "history", "--state", statePath)
	require.NoError(t, err, "stderr: %s", stderr)

	testutil.AssertContains(t, stdout, "No runs recorded.")
	assert.FileExists(t, statePath)
}

func TestHistory_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, stderr, err := runCLI(t, dir, "history", "-o", "json")
	require.NoError(t, err, "stderr: %s", stderr)

	var out output.HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), "stdout: %s", stdout)
	assert.Empty(t, out.Runs)
}

func TestInvalidOutputFormat(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, _, err := runCLI(t, dir, "schema", "-o", "xml")
	require.Error(t, err)
}

func TestCompletionCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, _, err := runCLI(t, dir, "completion", "bash")
	require.NoError(t, err)
	testutil.AssertContains(t, stdout, "catload")
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "interrupted",
			err:  fmt.Errorf("load: %w", context.Canceled),
			want: []string{"Interrupted!"},
		},
		{
			name: "sql failure",
			err: fmt.Errorf("execute: %w", &engine.SQLError{
				SQL: "DROP TABLE IF EXISTS `Stars`",
				Err: errors.New("access denied"),
			}),
			want: []string{"Problem with SQL:\nDROP TABLE IF EXISTS `Stars`\n", "Error: access denied"},
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: []string{"Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		enabled slog.Level
		blocked slog.Level
	}{
		{name: "default warn", cfg: config.Config{LogLevel: "warn"}, enabled: slog.LevelWarn, blocked: slog.LevelInfo},
		{name: "debug", cfg: config.Config{LogLevel: "debug"}, enabled: slog.LevelDebug, blocked: slog.LevelDebug - 1},
		{name: "error", cfg: config.Config{LogLevel: "error"}, enabled: slog.LevelError, blocked: slog.LevelWarn},
		{name: "verbose raises to info", cfg: config.Config{LogLevel: "warn", Verbose: true}, enabled: slog.LevelInfo, blocked: slog.LevelDebug},
		{name: "verbose keeps debug", cfg: config.Config{LogLevel: "debug", Verbose: true}, enabled: slog.LevelDebug, blocked: slog.LevelDebug - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(&bytes.Buffer{}, &tt.cfg)
			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.blocked))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{LogLevel: "info", LogFormat: "json"})
	logger.Info("staged", "bytes", 48)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "staged", rec["msg"])
	assert.InDelta(t, 48, rec["bytes"], 0)
}
