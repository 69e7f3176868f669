package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/catload/internal/cli/output"
	"github.com/leapstack-labs/catload/internal/engine"
	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Create the catalogue table and bulk-load its data",
		Long: `Parse the byte-by-byte description of the data file in the catalogue
ReadMe, then drop and recreate the destination table and load every record
with LOAD DATA LOCAL INFILE. Blank fields become NULL.

Without --update nothing is executed: the recognized column lines and the
generated SQL are printed instead.`,
		Example: `  # Show the SQL for the Hipparcos main catalogue
  catload load --catalogue-dir /data/I_239

  # Load it into the Analysis database
  catload load -U -D "database=Analysis;server=db;uid=astro"

  # Keep connection details out of the terminal
  catload load -U -H`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd)
		},
	}
	return cmd
}

func runLoad(cmd *cobra.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateFiles(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "catload load %s\nParameters: %s\n", time.Now().Format(time.DateTime), parameterSummary(cfg))

	cmdCtx, cleanup, err := NewCommandContext(cmd, EngineOptions{
		Target:  cfg.Update,
		History: cfg.Update,
		Echo:    true,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	plan, err := eng.Plan(ctx, cfg.Catalogue)
	if err != nil {
		return err
	}
	for _, w := range plan.Warnings {
		r.Warning(w)
	}

	if !cfg.Update {
		printPlan(r, plan)
		r.Muted("Dry run: use --update to execute.")
		r.Success("Done.")
		return nil
	}

	r.Printf("Connecting to database %s.\n", targetDescription(cfg))

	n, err := eng.Stage(ctx, plan)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("staged", "bytes", n, "path", plan.StagedPath)

	start := time.Now()
	run, err := eng.Execute(ctx, plan)
	if err != nil {
		return err
	}

	r.StatusLine(plan.Table, string(run.Status),
		fmt.Sprintf("(%d fields, %d rows, %s)", run.Fields, run.RowsLoaded, time.Since(start).Round(time.Millisecond)))
	r.Success("Done.")
	return nil
}

// printPlan writes the statements of plan, each terminated by a semicolon.
// Lines are styled one at a time since lipgloss pads multi-line blocks.
func printPlan(r *output.Renderer, plan *engine.Plan) {
	sqlStyle := r.Styles().SQL
	for _, stmt := range plan.Statements() {
		r.Println("")
		for _, line := range strings.Split(stmt+";", "\n") {
			r.Println(sqlStyle.Render(line))
		}
	}
	r.Println("")
}
