package loadsql

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/catload/pkg/readme"
)

// RecordVar is the session variable holding one raw data line.
const RecordVar = "@Record"

// Extract renders the blank-as-null extraction of one field from RecordVar.
// An all-blank slot becomes NULL; anything else is taken verbatim and left
// to the column type to convert.
func Extract(r readme.ByteRange) string {
	slice := fmt.Sprintf("SUBSTR(%s,%d,%d)", RecordVar, r.Start, r.Width)
	return fmt.Sprintf("CASE WHEN %s <> REPEAT(' ',%d) THEN %s END", slice, r.Width, slice)
}

// LoadData renders the LOAD DATA statement that reads every line of the
// staged file at path into RecordVar and assigns each column of table.
// ESCAPED BY '' keeps backslashes in catalogue data literal.
func LoadData(path, table string, fields []readme.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LOAD DATA LOCAL INFILE %s\n", QuoteString(path))
	fmt.Fprintf(&b, "INTO TABLE %s\n", QuoteIdent(table))
	// NUL never occurs in catalogue text, so the whole line, tabs
	// included, lands in RecordVar.
	b.WriteString("FIELDS TERMINATED BY '\\0' ESCAPED BY ''\n")
	b.WriteString("LINES TERMINATED BY '\\n'\n")
	fmt.Fprintf(&b, "(%s)", RecordVar)

	for i, f := range fields {
		if i == 0 {
			b.WriteString("\nSET\n  ")
		} else {
			b.WriteString(",\n  ")
		}
		fmt.Fprintf(&b, "%s = %s", QuoteIdent(f.Name), Extract(f.Range))
	}
	return b.String()
}
