package output

import "time"

// FieldInfo describes one parsed column for schema output.
type FieldInfo struct {
	Position int    `json:"position" yaml:"position"`
	Name     string `json:"name" yaml:"name"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
	Width    int    `json:"width" yaml:"width"`
	Format   string `json:"format" yaml:"format"`
	SQLType  string `json:"sql_type" yaml:"sql_type"`
	Units    string `json:"units,omitempty" yaml:"units,omitempty"`
	Comment  string `json:"comment" yaml:"comment"`
}

// SchemaOutput is the structured form of the schema command.
type SchemaOutput struct {
	Catalogue string      `json:"catalogue" yaml:"catalogue"`
	Table     string      `json:"table" yaml:"table"`
	DataFile  string      `json:"data_file" yaml:"data_file"`
	Expected  int         `json:"expected_fields" yaml:"expected_fields"`
	Fields    []FieldInfo `json:"fields" yaml:"fields"`
}

// RunInfo describes one recorded load.
type RunInfo struct {
	ID         string     `json:"id" yaml:"id"`
	Catalogue  string     `json:"catalogue" yaml:"catalogue"`
	Table      string     `json:"table" yaml:"table"`
	DataFile   string     `json:"data_file" yaml:"data_file"`
	Target     string     `json:"target" yaml:"target"`
	Status     string     `json:"status" yaml:"status"`
	Fields     int        `json:"fields" yaml:"fields"`
	RowsLoaded int64      `json:"rows_loaded" yaml:"rows_loaded"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	EndedAt    *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Duration   string     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// HistoryOutput is the structured form of the history command.
type HistoryOutput struct {
	Runs []RunInfo `json:"runs" yaml:"runs"`
}
