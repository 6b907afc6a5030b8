// Package query builds parameterized PostgreSQL statements over a mapping
// from view names to column expressions.
package query

import "strings"

// ProjectionMap maps the names callers filter and sort by to column
// expressions on one aliased table. Projected columns are also selected;
// mapped expressions are only addressable.
type ProjectionMap struct {
	schema   string
	table    string
	alias    string
	columns  map[string]string
	selected []string
}

// NewProjectionMap creates a ProjectionMap for schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project selects alias.column and addresses it as viewName.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	col := p.alias + "." + column
	p.columns[viewName] = col
	p.selected = append(p.selected, col)
	return p
}

// Map addresses expr as viewName without selecting it. "{alias}" in expr is
// replaced by the table alias, so JSONB paths such as
// "{alias}.data->>'zone'" can be filtered and sorted on.
func (p *ProjectionMap) Map(expr, viewName string) *ProjectionMap {
	p.columns[viewName] = strings.ReplaceAll(expr, "{alias}", p.alias)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns "schema.table alias".
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// From returns the FROM clause target.
func (p *ProjectionMap) From() string {
	return p.Table()
}

// Has reports whether viewName is mapped.
func (p *ProjectionMap) Has(viewName string) bool {
	_, ok := p.columns[viewName]
	return ok
}

// Column returns the expression for viewName, or viewName itself when it is
// not mapped. Callers passing untrusted names should check Has first.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the selected columns joined for a SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.selected, ", ")
}

// ColumnList returns the selected columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	return p.selected
}
