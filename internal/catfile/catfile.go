// Package catfile opens catalogue distribution files. CDS mirrors ship
// ReadMe and data files either plain or gzip-compressed, and older ReadMe
// files are often Latin-1 rather than UTF-8.
package catfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// GzipSuffix marks compressed files.
const GzipSuffix = ".gz"

// ErrNotFound is returned by Resolve when neither the plain nor the
// compressed file exists.
var ErrNotFound = errors.New("catalogue file not found")

// Resolve finds name in dir, falling back to name.gz.
func Resolve(dir, name string) (string, error) {
	candidates := []string{filepath.Join(dir, name)}
	if !strings.HasSuffix(name, GzipSuffix) {
		candidates = append(candidates, filepath.Join(dir, name+GzipSuffix))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(dir, name))
}

// LookupEncoding returns the decoder for a named text encoding. The empty
// name, "ascii" and "utf-8" mean no decoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "ascii", "us-ascii", "utf-8", "utf8":
		return encoding.Nop, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens path, gunzipping it when it ends in .gz and decoding text
// from enc into UTF-8.
func Open(path, enc string) (io.ReadCloser, error) {
	e, err := LookupEncoding(enc)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from catalogue configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	rc := &readCloser{Reader: f, closers: []io.Closer{f}}

	if strings.HasSuffix(path, GzipSuffix) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to read gzip header of %s: %w", path, err)
		}
		rc.Reader = zr
		rc.closers = append(rc.closers, zr)
	}

	if e != encoding.Nop {
		rc.Reader = e.NewDecoder().Reader(rc.Reader)
	}
	return rc, nil
}

// StagedName is the file name a data file gets once decompressed.
func StagedName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), GzipSuffix)
}
