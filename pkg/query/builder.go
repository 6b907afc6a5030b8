package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field is a view name mapped through the
// ProjectionMap.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "name,-saved_at" into sort fields; a leading "-"
// means descending. It returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// condition renders one WHERE clause, binding its arguments through bind.
type condition func(bind func(any) string) string

// binder numbers positional parameters in the order they are bound.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Builder assembles PostgreSQL SELECT statements over a ProjectionMap.
// Conditions are joined with AND and parameters are numbered from $1.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// Build returns a SELECT with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	var p binder
	return b.selectFrom() + b.where(&p, b.conditions) + b.orderBy(), p.args
}

// BuildCount returns a COUNT(*) with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	var p binder
	return "SELECT COUNT(*) FROM " + b.projection.From() + b.where(&p, b.conditions), p.args
}

// BuildPage returns a SELECT for the 1-indexed page of pageSize rows.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	var p binder
	stmt := b.selectFrom() + b.where(&p, b.conditions) + b.orderBy()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", stmt, pageSize, (page-1)*pageSize), p.args
}

// BuildSingle returns a SELECT for the row whose idField equals id. Other
// conditions are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	var p binder
	stmt := fmt.Sprintf("%s WHERE %s = %s", b.selectFrom(), b.projection.Column(idField), p.bind(id))
	return stmt, p.args
}

// BuildSingleOrNull returns the first row under the current conditions and
// ordering.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	var p binder
	return b.selectFrom() + b.where(&p, b.conditions) + b.orderBy() + " LIMIT 1", p.args
}

// BuildGroupCount counts rows per distinct non-empty value of field, most
// frequent first with ties broken by value, keeping at most limit groups.
// The builder's own conditions are left unchanged.
func (b *Builder) BuildGroupCount(field string, limit int) (string, []any) {
	col := b.projection.Column(field)
	conds := append(b.conditions[:len(b.conditions):len(b.conditions)], func(func(any) string) string {
		return fmt.Sprintf("%s IS NOT NULL AND %s <> ''", col, col)
	})

	var p binder
	stmt := fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM %s%s GROUP BY %s ORDER BY COUNT(*) DESC, %s ASC LIMIT %d",
		col, b.projection.From(), b.where(&p, conds), col, col, limit,
	)
	return stmt, p.args
}

// OrderByFields replaces the default sort. Fields that are not mapped by
// the projection are dropped; if none remain the default applies.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = b.sort[:0]
	for _, f := range fields {
		if b.projection.Has(f.Field) {
			b.sort = append(b.sort, f)
		}
	}
	return b
}

// WhereContains adds a case-insensitive substring match. LIKE wildcards in
// value match literally. Nil or empty values are ignored.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	pattern := containsPattern(*value)
	return b.add(func(bind func(any) string) string {
		return col + " ILIKE " + bind(pattern)
	})
}

// WhereEquals adds an equality match. Nil values, including typed nil
// pointers, are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
}

// WhereTrue requires field, cast to boolean, to be true.
func (b *Builder) WhereTrue(field string) *Builder {
	col := b.projection.Column(field)
	return b.add(func(func(any) string) string {
		return "(" + col + ")::boolean IS TRUE"
	})
}

// WhereNotNull requires field to be present.
func (b *Builder) WhereNotNull(field string) *Builder {
	col := b.projection.Column(field)
	return b.add(func(func(any) string) string {
		return col + " IS NOT NULL"
	})
}

// WhereIn matches any of values. An empty slice is ignored.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		params := make([]string, len(values))
		for i, v := range values {
			params[i] = bind(v)
		}
		return col + " IN (" + strings.Join(params, ", ") + ")"
	})
}

// WhereNullable matches value, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.add(func(func(any) string) string {
			return col + " IS NULL"
		})
	}
	return b.add(func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
}

// WhereSearch matches search as a case-insensitive substring of any of
// fields. A nil or empty search, or no fields, is ignored.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	pattern := containsPattern(*search)

	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}

	return b.add(func(bind func(any) string) string {
		clauses := make([]string, len(cols))
		for i, col := range cols {
			clauses[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(clauses, " OR ") + ")"
	})
}

func (b *Builder) add(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From()
}

func (b *Builder) where(p *binder, conds []condition) string {
	if len(conds) == 0 {
		return ""
	}
	clauses := make([]string, len(conds))
	for i, c := range conds {
		clauses[i] = c(p.bind)
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func (b *Builder) orderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
