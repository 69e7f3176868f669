package loadsql

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/catload/pkg/readme"
)

// Bookkeeping columns that precede the catalogue columns in every table.
var bookkeepingColumns = []string{
	"`ID` INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY",
	"`Updated` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP",
	"`Captured` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP",
}

// ColumnCount is the number of columns CreateTable defines for fields.
func ColumnCount(fields []readme.Field) int {
	return len(bookkeepingColumns) + len(fields)
}

// DropTable renders DROP TABLE IF EXISTS for table.
func DropTable(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", QuoteIdent(table))
}

// ColumnDef renders one catalogue column.
//
//	`Vmag` decimal(5,2) COMMENT 'Magnitude in Johnson V, mag'
func ColumnDef(f readme.Field) string {
	return fmt.Sprintf("%s %s COMMENT %s", QuoteIdent(f.Name), f.SQLType, QuoteString(f.Description()))
}

// CreateTable renders CREATE TABLE IF NOT EXISTS with the bookkeeping
// columns, one column per field and, when non-empty, the caller's unique
// clause (for example "UNIQUE KEY unique_key (`HIP`)") verbatim.
func CreateTable(table string, fields []readme.Field, unique string) string {
	defs := make([]string, 0, len(bookkeepingColumns)+len(fields)+1)
	defs = append(defs, bookkeepingColumns...)
	for _, f := range fields {
		defs = append(defs, ColumnDef(f))
	}
	if u := strings.TrimSpace(unique); u != "" {
		defs = append(defs, u)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", QuoteIdent(table), strings.Join(defs, ",\n  "))
}
