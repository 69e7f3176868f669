package loadsql

import (
	"strings"

	"github.com/leapstack-labs/catload/pkg/readme"
)

// QuoteIdent quotes an identifier with backticks, doubling embedded ones.
//
//	QuoteIdent("HIP")    => "`HIP`"
//	QuoteIdent("we`ird") => "`we``ird`"
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteString renders s as a single-quoted string literal. Backslashes are
// doubled as well since MySQL treats them as escapes.
func QuoteString(s string) string {
	return "'" + readme.EscapeQuotes(strings.ReplaceAll(s, `\`, `\\`)) + "'"
}
