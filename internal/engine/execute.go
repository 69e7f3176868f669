package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/catload/internal/state"
	"github.com/leapstack-labs/catload/pkg/loadsql"
	"golang.org/x/sync/errgroup"
)

// SQLError wraps a database failure with the statement that caused it.
type SQLError struct {
	SQL string
	Err error
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("problem with SQL: %v", e.Err)
}

func (e *SQLError) Unwrap() error { return e.Err }

// Execute runs the plan's statements in order against the target and
// records the run. The returned run is non-nil whenever history is enabled,
// also on failure.
func (e *Engine) Execute(ctx context.Context, p *Plan) (*state.Run, error) {
	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, err
	}

	run := &state.Run{
		Catalogue: p.Catalogue.Name,
		Table:     p.Table,
		DataFile:  p.DataPath,
		Target:    e.targetName,
		Fields:    len(p.Fields),
	}
	if e.store != nil {
		if err := e.store.CreateRun(run); err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
		e.logger.Debug("created run", "run_id", run.ID)
	}

	release := e.db.AllowLocalFile(p.StagedPath)
	defer release()

	e.logger.Info("starting load", "table", p.Table, "fields", len(p.Fields))
	rows, runErr := e.execStatements(ctx, p)
	if runErr == nil {
		rows, runErr = e.verifyLoad(ctx, p, rows)
	}

	status := state.RunStatusCompleted
	errMsg := ""
	switch {
	case runErr == nil:
		e.logger.Info("load completed", "table", p.Table, "rows", rows)
	case errors.Is(runErr, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		status = state.RunStatusCancelled
		errMsg = runErr.Error()
		e.logger.Warn("load cancelled", "table", p.Table)
	default:
		status = state.RunStatusFailed
		errMsg = runErr.Error()
		e.logger.Error("load failed", "table", p.Table, "error", errMsg)
	}

	if e.store == nil {
		run.Status = status
		run.RowsLoaded = rows
		run.Error = errMsg
		return run, runErr
	}

	if err := e.store.CompleteRun(run.ID, status, rows, errMsg); err != nil {
		e.logger.Warn("failed to record run completion", "run_id", run.ID, "error", err)
	}
	if updated, err := e.store.GetRun(run.ID); err == nil {
		run = updated
	}
	return run, runErr
}

// verifyLoad reads the loaded table back. A column count other than the
// plan's fails the load. Zero affected rows fall back to the table's row
// count, since some servers do not report rows for LOAD DATA.
func (e *Engine) verifyLoad(ctx context.Context, p *Plan, rows int64) (int64, error) {
	md, err := e.db.GetTableMetadata(ctx, p.Table)
	if err != nil {
		e.logger.Warn("failed to read table metadata", "table", p.Table, "error", err)
		return rows, nil
	}
	if md == nil {
		return rows, nil
	}

	if want := loadsql.ColumnCount(p.Fields); len(md.Columns) != want {
		return rows, fmt.Errorf("table %s has %d columns, expected %d", p.Table, len(md.Columns), want)
	}
	if rows == 0 && md.RowCount > 0 {
		e.logger.Debug("using table row count", "table", p.Table, "rows", md.RowCount)
		rows = md.RowCount
	}
	return rows, nil
}

// execStatements executes drop, create and load while a heartbeat reports
// progress. It returns the number of rows the load statement affected.
func (e *Engine) execStatements(ctx context.Context, p *Plan) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	var rows int64
	g.Go(func() error {
		defer close(done)
		for _, stmt := range p.Statements() {
			e.logger.Debug("executing statement", "sql", stmt)
			n, err := e.db.Exec(gctx, stmt)
			if err != nil {
				return &SQLError{SQL: stmt, Err: err}
			}
			if stmt == p.Load {
				rows = n
			}
		}
		return nil
	})

	if e.heartbeat > 0 {
		g.Go(func() error {
			start := time.Now()
			ticker := time.NewTicker(e.heartbeat)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					elapsed := time.Since(start).Round(time.Second)
					e.logger.Info("load in progress", "table", p.Table, "elapsed", elapsed)
					if e.onHeartbeat != nil {
						e.onHeartbeat(p.Table, elapsed)
					}
				}
			}
		})
	}

	err := g.Wait()
	return rows, err
}
