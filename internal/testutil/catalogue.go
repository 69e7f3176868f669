package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// Fixture catalogue: three columns documented for stars.dat.
const (
	FixtureDataFile     = "stars.dat"
	FixtureFields       = 3
	FixtureRecordLength = 24
)

// FixtureReadMe documents stars.dat and a second table that must be ignored.
const FixtureReadMe = `J/X/1     Bright stars sample
================================================================================

Byte-by-byte Description of file: other.dat
--------------------------------------------------------------------------------
   Bytes Format Units   Label     Explanations
--------------------------------------------------------------------------------
   1-  4  I4    ---     Seq       Sequence number
--------------------------------------------------------------------------------

Byte-by-byte Description of file: stars.dat
--------------------------------------------------------------------------------
   Bytes Format Units   Label     Explanations
--------------------------------------------------------------------------------
   1-  6  I6    ---     HIP       Identifier (HIP number)
   8- 12  F5.2  mag     Vmag      ? Magnitude in Johnson V
  14- 24  A11   ---     Name      Star's common name
--------------------------------------------------------------------------------
`

// FixtureData holds two fixed-width records; the second has a blank Vmag.
const FixtureData = "     1  9.10 Alpha      \n" +
	"     2       Beta       \n"

// WriteCatalogue writes the fixture ReadMe and data file into dir.
// With compress set both files are gzipped and get a .gz suffix.
func WriteCatalogue(t testing.TB, dir string, compress bool) (readmePath, dataPath string) {
	t.Helper()

	readmePath = filepath.Join(dir, "ReadMe")
	dataPath = filepath.Join(dir, FixtureDataFile)
	readme, data := []byte(FixtureReadMe), []byte(FixtureData)

	if compress {
		readmePath += ".gz"
		dataPath += ".gz"
		readme, data = gzipBytes(t, readme), gzipBytes(t, data)
	}

	if err := os.WriteFile(readmePath, readme, 0o600); err != nil {
		t.Fatalf("failed to write ReadMe: %v", err)
	}
	if err := os.WriteFile(dataPath, data, 0o600); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}
	return readmePath, dataPath
}

func gzipBytes(t testing.TB, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
