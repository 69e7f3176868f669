package commands

import (
	"fmt"

	"github.com/leapstack-labs/catload/internal/cli/output"
	"github.com/leapstack-labs/catload/pkg/readme"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the columns described for the data file",
		Long: `Parse and validate the byte-by-byte description of the data file and
list the resulting columns with their byte ranges and SQL types.

Nothing is staged or executed.`,
		Example: `  # Columns of the Hipparcos main catalogue
  catload schema --catalogue-dir /data/I_239

  # As JSON for other tools
  catload schema -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd)
		},
	}
}

func runSchema(cmd *cobra.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateFiles(); err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd, EngineOptions{})
	if err != nil {
		return err
	}
	defer cleanup()

	cat := cfg.Catalogue
	fields, _, err := cmdCtx.Engine.Parse(cmd.Context(), cat)
	if err != nil {
		return err
	}

	out := output.SchemaOutput{
		Catalogue: cat.Name,
		Table:     cat.Table,
		DataFile:  cat.SectionName(),
		Expected:  cat.ExpectedFields,
		Fields:    fieldInfos(fields),
	}

	r := cmdCtx.Renderer
	if handled, err := r.Structured(out); handled {
		return err
	}
	renderSchemaText(r, out)
	return nil
}

func fieldInfos(fields []readme.Field) []output.FieldInfo {
	infos := make([]output.FieldInfo, 0, len(fields))
	for i, f := range fields {
		infos = append(infos, output.FieldInfo{
			Position: i + 1,
			Name:     f.Name,
			Start:    f.Range.Start,
			End:      f.Range.End,
			Width:    f.Range.Width,
			Format:   f.Type.Token,
			SQLType:  f.SQLType,
			Units:    f.Units,
			Comment:  f.Comment,
		})
	}
	return infos
}

func renderSchemaText(r *output.Renderer, out output.SchemaOutput) {
	r.Header(1, fmt.Sprintf("%s %s (%s)", out.Catalogue, out.Table, out.DataFile))

	rows := make([][]any, 0, len(out.Fields))
	for _, f := range out.Fields {
		rows = append(rows, []any{f.Position, f.Name, fmt.Sprintf("%d-%d", f.Start, f.End), f.Format, f.SQLType, f.Units, f.Comment})
	}
	r.Table([]string{"#", "Name", "Bytes", "Format", "SQL Type", "Units", "Explanation"}, rows)
	r.Muted(fmt.Sprintf("%d fields", len(out.Fields)))
}
