package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/catload/internal/catfile"
)

// stagedFileMode lets the database server read the staged file when the
// load runs server side.
const stagedFileMode = 0o644

// ctxReader stops a copy once its context is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// sameFile reports whether a and b name the same file, either by path or
// because both exist and share an inode.
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// Stage copies the plan's data file into the staging directory,
// decompressing it if needed, and returns the number of bytes written.
// A data file that already is the staged file is left untouched and its
// size is returned.
func (e *Engine) Stage(ctx context.Context, p *Plan) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.InPlace || sameFile(p.StagedPath, p.DataPath) {
		if strings.HasSuffix(p.DataPath, catfile.GzipSuffix) {
			return 0, fmt.Errorf("cannot stage %s onto itself: compressed data needs a separate staging directory", p.DataPath)
		}
		info, err := os.Stat(p.DataPath)
		if err != nil {
			return 0, fmt.Errorf("failed to stat data file: %w", err)
		}
		e.logger.Info("loading data file in place", "path", p.DataPath, "bytes", info.Size())
		return info.Size(), nil
	}

	if err := os.MkdirAll(e.stagingDir, 0o750); err != nil {
		return 0, fmt.Errorf("failed to create staging directory: %w", err)
	}

	src, err := catfile.Open(p.DataPath, "")
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	e.logger.Debug("staging data file", "from", p.DataPath, "to", p.StagedPath)

	dst, err := os.OpenFile(p.StagedPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, stagedFileMode) //nolint:gosec // staging path is derived from configuration
	if err != nil {
		return 0, fmt.Errorf("failed to create staged file: %w", err)
	}

	n, copyErr := io.Copy(dst, &ctxReader{ctx: ctx, r: src})
	closeErr := dst.Close()
	if copyErr != nil {
		_ = os.Remove(p.StagedPath)
		return n, fmt.Errorf("failed to stage %s: %w", p.DataPath, copyErr)
	}
	if closeErr != nil {
		return n, fmt.Errorf("failed to stage %s: %w", p.DataPath, closeErr)
	}

	// umask may have narrowed the mode on create
	if err := os.Chmod(p.StagedPath, stagedFileMode); err != nil {
		return n, fmt.Errorf("failed to set staged file mode: %w", err)
	}

	e.logger.Info("staged data file", "path", p.StagedPath, "bytes", n)
	return n, nil
}
