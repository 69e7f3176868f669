// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/catload/internal/cli/output"
	rootutil "github.com/leapstack-labs/catload/internal/testutil"
)

// FixtureTable is the destination table configured by SetupTestProject.
const FixtureTable = "Stars"

// SetupTestProject creates a temporary project holding the fixture
// catalogue and a catload.yaml pointing at it. The project directory is
// returned with symlinks resolved.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}

	catDir := filepath.Join(tmpDir, "catalogue")
	if err := os.MkdirAll(catDir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", catDir, err)
	}
	rootutil.WriteCatalogue(t, catDir, false)

	cfg := fmt.Sprintf(`catalogue:
  name: J/X/1
  table: %s
  dir: catalogue
  data: %s
  expected_fields: %d
  record_length: %d
  unique: "UNIQUE KEY unique_key (`+"`HIP`"+`)"
state_path: .catload/state.db
staging_dir: staging
`, FixtureTable, rootutil.FixtureDataFile, rootutil.FixtureFields, rootutil.FixtureRecordLength)

	if err := os.WriteFile(filepath.Join(tmpDir, "catload.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to create catload.yaml: %v", err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererPlain creates a new test renderer in text mode without a TTY.
func NewTestRendererPlain() *TestRenderer {
	return NewTestRenderer(output.ModeText, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertNotContains checks that the string does not contain the substring.
func AssertNotContains(t *testing.T, s, unexpected string) {
	t.Helper()
	if strings.Contains(s, unexpected) {
		t.Errorf("string %q unexpectedly contains %q", s, unexpected)
	}
}
