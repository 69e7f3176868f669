package loadsql

import "github.com/leapstack-labs/catload/pkg/readme"

// Plan is the full set of statements for loading one catalogue.
type Plan struct {
	Table  string
	Fields []readme.Field
	Drop   string
	Create string
	Load   string
}

// NewPlan renders the drop, create and load statements for table.
func NewPlan(table, unique, stagedPath string, fields []readme.Field) *Plan {
	return &Plan{
		Table:  table,
		Fields: fields,
		Drop:   DropTable(table),
		Create: CreateTable(table, fields, unique),
		Load:   LoadData(stagedPath, table, fields),
	}
}

// Statements returns the statements in execution order.
func (p *Plan) Statements() []string {
	return []string{p.Drop, p.Create, p.Load}
}
