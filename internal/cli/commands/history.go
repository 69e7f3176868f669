package commands

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/catload/internal/cli/output"
	"github.com/leapstack-labs/catload/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded catalogue loads",
		Long:  `List the loads recorded in the run history, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, EngineOptions{History: true})
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := cmdCtx.Engine.GetStateStore().ListRuns(opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := output.HistoryOutput{Runs: make([]output.RunInfo, 0, len(runs))}
	for _, run := range runs {
		out.Runs = append(out.Runs, runInfo(run))
	}

	r := cmdCtx.Renderer
	if handled, err := r.Structured(out); handled {
		return err
	}

	if len(out.Runs) == 0 {
		r.Muted("No runs recorded.")
		return nil
	}

	rows := make([][]any, 0, len(out.Runs))
	for _, run := range out.Runs {
		rows = append(rows, []any{
			run.StartedAt.Local().Format(time.DateTime),
			run.Catalogue,
			run.Table,
			run.Status,
			run.Fields,
			run.RowsLoaded,
			run.Duration,
			run.Error,
		})
	}
	r.Table([]string{"Started", "Catalogue", "Table", "Status", "Fields", "Rows", "Duration", "Error"}, rows)
	return nil
}

func runInfo(run *state.Run) output.RunInfo {
	info := output.RunInfo{
		ID:         run.ID,
		Catalogue:  run.Catalogue,
		Table:      run.Table,
		DataFile:   run.DataFile,
		Target:     run.Target,
		Status:     string(run.Status),
		Fields:     run.Fields,
		RowsLoaded: run.RowsLoaded,
		StartedAt:  run.StartedAt,
		EndedAt:    run.CompletedAt,
		Error:      run.Error,
	}
	if run.CompletedAt != nil {
		info.Duration = run.Duration().Round(time.Millisecond).String()
	}
	return info
}
