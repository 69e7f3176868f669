package loadsql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/catload/pkg/readme"
)

func mustField(t *testing.T, line string) readme.Field {
	t.Helper()
	f, ok, err := readme.ParseField(line)
	require.NoError(t, err)
	require.True(t, ok)
	return f
}

func TestDropTable(t *testing.T) {
	assert.Equal(t, "DROP TABLE IF EXISTS `Hipparcos`", DropTable("Hipparcos"))
}

func TestColumnDef(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "with units",
			line: "  42- 46  F5.2  mag  Vmag  ? Magnitude in Johnson V",
			want: "`Vmag` decimal(5,2) COMMENT 'Magnitude in Johnson V, mag'",
		},
		{
			name: "without units",
			line: "   9- 14  I6  ---  HIP  Identifier (HIP number)",
			want: "`HIP` int COMMENT 'Identifier (HIP number)'",
		},
		{
			name: "quote escaped",
			line: "   1-  9  A9  ---  Name  Tycho's name",
			want: "`Name` varchar(9) COMMENT 'Tycho''s name'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnDef(mustField(t, tt.line)))
		})
	}
}

func TestCreateTable_BookkeepingFirst(t *testing.T) {
	f := mustField(t, "   9- 14  I6  ---  HIP  Identifier")
	sql := CreateTable("Hipparcos", []readme.Field{f}, "")

	assert.True(t, strings.HasPrefix(sql, "CREATE TABLE IF NOT EXISTS `Hipparcos` (\n"))

	id := strings.Index(sql, "`ID`")
	updated := strings.Index(sql, "`Updated`")
	captured := strings.Index(sql, "`Captured`")
	hip := strings.Index(sql, "`HIP`")
	require.True(t, id >= 0 && updated >= 0 && captured >= 0 && hip >= 0, sql)
	assert.Less(t, id, updated)
	assert.Less(t, updated, captured)
	assert.Less(t, captured, hip)

	assert.Contains(t, sql, "AUTO_INCREMENT")
	assert.Contains(t, sql, "ON UPDATE CURRENT_TIMESTAMP")
	assert.True(t, strings.HasSuffix(sql, "COMMENT 'Identifier'\n)"), "no dangling comma without unique clause:\n%s", sql)
}

func TestColumnCount(t *testing.T) {
	fields := []readme.Field{
		mustField(t, "   9- 14  I6  ---  HIP  Identifier"),
		mustField(t, "  42- 46  F5.2  mag  Vmag  Magnitude in Johnson V"),
	}
	assert.Equal(t, 5, ColumnCount(fields))
	assert.Equal(t, 3, ColumnCount(nil))

	sql := CreateTable("Hipparcos", fields, "UNIQUE KEY unique_key (`HIP`)")
	assert.Equal(t, ColumnCount(fields), strings.Count(sql, " COMMENT ")+strings.Count(sql, "TIMESTAMP NOT NULL")+strings.Count(sql, "PRIMARY KEY"))
}

func TestCreateTable_UniqueClause(t *testing.T) {
	fields := []readme.Field{
		mustField(t, "   1-  1  A1  ---  Catalog  [H] Catalogue"),
		mustField(t, "   9- 14  I6  ---  HIP  Identifier"),
	}
	sql := CreateTable("Hipparcos", fields, "unique key unique_key (HIP)")

	lines := strings.Split(sql, "\n")
	require.Len(t, lines, 1+3+2+1+1)
	assert.Equal(t, "  `Catalog` varchar(1) COMMENT 'Catalogue',", lines[4])
	assert.Equal(t, "  `HIP` int COMMENT 'Identifier',", lines[5])
	assert.Equal(t, "  unique key unique_key (HIP)", lines[6])
	assert.Equal(t, ")", lines[7])
}
