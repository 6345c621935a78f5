package postgres

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

// builder accumulates positional arguments while rendering a statement.
// Identifiers are emitted bare: remote.Query.Validate restricts them to
// lowercase letters, digits and underscores.
type builder struct {
	args  []any
	depth int
}

func (b *builder) arg(v any) string {
	if list, ok := v.([]string); ok {
		v = pq.Array(list)
	}
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *builder) alias() string {
	a := "t" + strconv.Itoa(b.depth)
	b.depth++
	return a
}

// selectSQL renders a query returning one JSON object per row.
// ids, when not nil, further restricts the rows to those primary keys.
// The JSON object is built in a lateral subquery so ORDER BY and LIMIT
// apply to the outermost statement and the row order is guaranteed.
func selectSQL(q remote.Query, ids []string) (string, []any) {
	b := &builder{}
	t := b.alias()
	projection := b.projection(t, q.Columns, q.Embeds)

	var sb strings.Builder
	sb.WriteString("SELECT row_to_json(r) FROM ")
	sb.WriteString(q.Table)
	sb.WriteString(" ")
	sb.WriteString(t)
	sb.WriteString(" CROSS JOIN LATERAL (SELECT ")
	sb.WriteString(projection)
	sb.WriteString(") r")

	conds := b.conditions(t, q.Filters, q.AnyOf)
	if ids != nil {
		conds = append(conds, t+".id = ANY("+b.arg(ids)+")")
	}
	writeWhere(&sb, conds)

	if q.Order != nil {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(t + "." + q.Order.Column)
		if q.Order.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}

	switch {
	case q.Range != nil:
		sb.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", q.Range.To-q.Range.From+1, q.Range.From))
	case q.Limit > 0:
		sb.WriteString(fmt.Sprintf(" LIMIT %d", q.Limit))
	}

	return sb.String(), b.args
}

// countSQL renders the exact row count of the query, ignoring range and order.
func countSQL(q remote.Query) (string, []any) {
	b := &builder{}
	t := b.alias()

	var sb strings.Builder
	sb.WriteString("SELECT count(*) FROM ")
	sb.WriteString(q.Table)
	sb.WriteString(" ")
	sb.WriteString(t)
	writeWhere(&sb, b.conditions(t, q.Filters, q.AnyOf))
	return sb.String(), b.args
}

func (b *builder) projection(t string, columns []string, embeds []remote.Embed) string {
	parts := make([]string, 0, len(columns)+len(embeds))
	if len(columns) == 0 {
		parts = append(parts, t+".*")
	}
	for _, c := range columns {
		parts = append(parts, t+"."+c)
	}
	for _, e := range embeds {
		et := b.alias()
		ej := "e" + strings.TrimPrefix(et, "t")
		parts = append(parts, fmt.Sprintf(
			"(SELECT row_to_json(%s) FROM (SELECT %s FROM %s %s WHERE %s.id = %s.%s) %s) AS %s",
			ej, b.projection(et, e.Columns, e.Embeds), e.Table, et, et, t, e.ForeignKey, ej, e.Alias,
		))
	}
	return strings.Join(parts, ", ")
}

func (b *builder) conditions(t string, all, anyOf []remote.Filter) []string {
	conds := make([]string, 0, len(all)+1)
	for _, f := range all {
		conds = append(conds, b.condition(t, f))
	}
	if len(anyOf) > 0 {
		ors := make([]string, 0, len(anyOf))
		for _, f := range anyOf {
			ors = append(ors, b.condition(t, f))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	return conds
}

func (b *builder) condition(t string, f remote.Filter) string {
	col := t + "." + f.Column
	switch f.Op {
	case remote.OpILike:
		return col + " ILIKE " + b.arg(f.Value)
	case remote.OpIs:
		switch f.Value {
		case true:
			return col + " IS TRUE"
		case false:
			return col + " IS FALSE"
		default:
			return col + " IS NULL"
		}
	default:
		return col + " = " + b.arg(f.Value)
	}
}

func writeWhere(sb *strings.Builder, conds []string) {
	if len(conds) == 0 {
		return
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(conds, " AND "))
}

// sortedColumns returns the keys of values in a stable order.
func sortedColumns(values map[string]any) []string {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func insertSQL(m remote.Mutation) (string, []any) {
	b := &builder{}
	cols := sortedColumns(m.Values)
	placeholders := make([]string, 0, len(cols))
	for _, c := range cols {
		placeholders = append(placeholders, b.arg(m.Values[c]))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		m.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", ")), b.args
}

func updateSQL(m remote.Mutation) (string, []any) {
	b := &builder{}
	t := b.alias()
	cols := sortedColumns(m.Values)
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		sets = append(sets, c+" = "+b.arg(m.Values[c]))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("UPDATE %s %s SET %s", m.Table, t, strings.Join(sets, ", ")))
	writeWhere(&sb, b.conditions(t, m.Filters, nil))
	sb.WriteString(" RETURNING " + t + ".id")
	return sb.String(), b.args
}

func deleteSQL(m remote.Mutation) (string, []any) {
	b := &builder{}
	t := b.alias()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("DELETE FROM %s %s", m.Table, t))
	writeWhere(&sb, b.conditions(t, m.Filters, nil))
	sb.WriteString(" RETURNING row_to_json(" + t + ")")
	return sb.String(), b.args
}
