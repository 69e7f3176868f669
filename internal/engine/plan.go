package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/catload/internal/catfile"
	"github.com/leapstack-labs/catload/internal/config"
	"github.com/leapstack-labs/catload/pkg/loadsql"
	"github.com/leapstack-labs/catload/pkg/readme"
)

// Plan is a rendered catalogue load together with where its data comes
// from and where it will be staged.
type Plan struct {
	*loadsql.Plan

	Catalogue  *config.CatalogueConfig
	ReadMePath string
	DataPath   string
	StagedPath string
	// InPlace is set when the data file already sits at the staged path
	// and is loaded without copying.
	InPlace  bool
	Warnings []string
}

// Parse reads the catalogue's ReadMe and returns its validated field
// descriptors. Column lines are echoed to the engine's echo writer.
func (e *Engine) Parse(ctx context.Context, cat *config.CatalogueConfig) ([]readme.Field, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if err := cat.Validate(); err != nil {
		return nil, "", err
	}

	want := cat.ReadMePath()
	path, err := catfile.Resolve(filepath.Dir(want), filepath.Base(want))
	if err != nil {
		return nil, "", err
	}

	rc, err := catfile.Open(path, cat.Encoding)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = rc.Close() }()

	opts := cat.ParseOptions()
	opts.Echo = e.echo

	e.logger.Debug("parsing catalogue documentation", "readme", path, "data_file", opts.DataFile)

	fields, err := readme.Parse(rc, opts)
	if err != nil {
		return nil, path, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := readme.ValidateCount(fields, cat.ExpectedFields); err != nil {
		return fields, path, err
	}

	e.logger.Debug("parsed fields", "count", len(fields), "table", cat.Table)
	return fields, path, nil
}

// Plan parses the catalogue and renders its drop, create and load
// statements. It does not touch the data file or the database.
func (e *Engine) Plan(ctx context.Context, cat *config.CatalogueConfig) (*Plan, error) {
	fields, readmePath, err := e.Parse(ctx, cat)
	if err != nil {
		return nil, err
	}

	dataPath := cat.DataPath()
	if resolved, err := catfile.Resolve(filepath.Dir(dataPath), filepath.Base(dataPath)); err == nil {
		dataPath = resolved
	} else if !errors.Is(err, catfile.ErrNotFound) {
		return nil, err
	}

	staged := filepath.Join(e.stagingDir, catfile.StagedName(dataPath))
	inPlace := sameFile(staged, dataPath)
	if inPlace {
		staged = dataPath
		e.logger.Debug("data file is already staged", "path", dataPath)
	}

	p := &Plan{
		Plan:       loadsql.NewPlan(cat.Table, cat.Unique, staged, fields),
		Catalogue:  cat,
		ReadMePath: readmePath,
		DataPath:   dataPath,
		StagedPath: staged,
		InPlace:    inPlace,
	}

	if cat.RecordLength > 0 {
		for _, f := range fields {
			if f.Range.End > cat.RecordLength {
				w := fmt.Sprintf("field %s ends at byte %d, beyond the %d-byte record", f.Name, f.Range.End, cat.RecordLength)
				e.logger.Warn("field beyond record length", "field", f.Name, "end", f.Range.End, "record_length", cat.RecordLength)
				p.Warnings = append(p.Warnings, w)
			}
		}
	}

	return p, nil
}
