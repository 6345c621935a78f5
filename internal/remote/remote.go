// Package remote describes the capability the catalog needs from the
// hosted relational store: filtered selects with embedded relations,
// exact counts, and row mutations returning their representation.
package remote

import (
	"context"
	"fmt"
	"regexp"
)

// Service is implemented by every remote backend.
type Service interface {
	Select(ctx context.Context, q Query) (Response, error)
	Mutate(ctx context.Context, m Mutation) (Response, error)
	Ping(ctx context.Context) error
}

// Response carries the JSON body returned for a request and, when an
// exact count was requested, the total number of matching rows.
//
// Body is a JSON array, or a single object when the request asked for a
// single row. It is nil for head-only requests.
type Response struct {
	Body  []byte
	Count *int64
}

// =============================================================================
// Queries
// =============================================================================

// Op is a filter operator.
type Op string

const (
	OpEq    Op = "eq"
	OpILike Op = "ilike"
	OpIs    Op = "is"
)

// Filter restricts rows on a single column.
//
// For OpILike, Value is a pattern where % matches any run of characters.
// For OpIs, Value is nil, true or false.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

// ILike builds a case-insensitive pattern filter.
func ILike(column, pattern string) Filter {
	return Filter{Column: column, Op: OpILike, Value: pattern}
}

// Embed joins a to-one related row into each result under Alias.
// The parent row references the embedded table through ForeignKey.
type Embed struct {
	Alias      string
	Table      string
	ForeignKey string
	Columns    []string
	Embeds     []Embed
}

// Order sorts results on one column.
type Order struct {
	Column     string
	Descending bool
}

// Range selects rows From..To inclusive, zero-based.
type Range struct {
	From int
	To   int
}

// Query is a read against one table.
type Query struct {
	Table string
	// Columns is the projection; empty means every column.
	Columns []string
	Embeds  []Embed
	// Filters are combined with AND.
	Filters []Filter
	// AnyOf filters are combined with OR, then ANDed with Filters.
	AnyOf []Filter
	Order *Order
	Range *Range
	// Limit caps the number of rows when Range is nil. Zero means no cap.
	Limit int
	// Count requests the exact number of matching rows.
	Count bool
	// Head skips the rows and only returns the count.
	Head bool
	// Single expects exactly one row; zero or several rows fail with ErrCodeNoRows.
	Single bool
}

// =============================================================================
// Mutations
// =============================================================================

// MutationKind selects the write operation.
type MutationKind int

const (
	Insert MutationKind = iota + 1
	Update
	Delete
)

func (k MutationKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation is a write against one table.
type Mutation struct {
	Kind  MutationKind
	Table string
	// Values holds the columns to write for Insert and Update.
	Values map[string]any
	// Filters select the rows to Update or Delete.
	Filters []Filter
	// Returning shapes the representation of the written rows. Nil
	// returns every column of the written rows.
	Returning *Query
	// Single expects exactly one written row.
	Single bool
}

// =============================================================================
// Validation
// =============================================================================

var identRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to use as a table or column name.
func ValidIdentifier(s string) bool {
	return identRE.MatchString(s)
}

// Validate checks every identifier referenced by the query.
func (q Query) Validate() error {
	if !ValidIdentifier(q.Table) {
		return fmt.Errorf("invalid table %q", q.Table)
	}
	for _, c := range q.Columns {
		if c != "*" && !ValidIdentifier(c) {
			return fmt.Errorf("invalid column %q", c)
		}
	}
	if err := validateEmbeds(q.Embeds); err != nil {
		return err
	}
	for _, f := range append(append([]Filter{}, q.Filters...), q.AnyOf...) {
		if !ValidIdentifier(f.Column) {
			return fmt.Errorf("invalid filter column %q", f.Column)
		}
		switch f.Op {
		case OpEq, OpILike, OpIs:
		default:
			return fmt.Errorf("unsupported operator %q", f.Op)
		}
	}
	if q.Order != nil && !ValidIdentifier(q.Order.Column) {
		return fmt.Errorf("invalid order column %q", q.Order.Column)
	}
	if q.Range != nil && (q.Range.From < 0 || q.Range.To < q.Range.From) {
		return fmt.Errorf("invalid range %d-%d", q.Range.From, q.Range.To)
	}
	return nil
}

func validateEmbeds(embeds []Embed) error {
	for _, e := range embeds {
		if !ValidIdentifier(e.Alias) || !ValidIdentifier(e.Table) || !ValidIdentifier(e.ForeignKey) {
			return fmt.Errorf("invalid embed %q", e.Alias)
		}
		for _, c := range e.Columns {
			if c != "*" && !ValidIdentifier(c) {
				return fmt.Errorf("invalid embed column %q", c)
			}
		}
		if err := validateEmbeds(e.Embeds); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the mutation shape and identifiers.
func (m Mutation) Validate() error {
	if !ValidIdentifier(m.Table) {
		return fmt.Errorf("invalid table %q", m.Table)
	}
	switch m.Kind {
	case Insert:
		if len(m.Values) == 0 {
			return fmt.Errorf("insert into %s: no values", m.Table)
		}
	case Update:
		if len(m.Values) == 0 {
			return fmt.Errorf("update %s: no values", m.Table)
		}
		if len(m.Filters) == 0 {
			return fmt.Errorf("update %s: refusing unfiltered update", m.Table)
		}
	case Delete:
		if len(m.Filters) == 0 {
			return fmt.Errorf("delete from %s: refusing unfiltered delete", m.Table)
		}
	default:
		return fmt.Errorf("unknown mutation kind %d", m.Kind)
	}
	for col := range m.Values {
		if !ValidIdentifier(col) {
			return fmt.Errorf("invalid column %q", col)
		}
	}
	for _, f := range m.Filters {
		if !ValidIdentifier(f.Column) {
			return fmt.Errorf("invalid filter column %q", f.Column)
		}
	}
	if m.Returning != nil {
		r := *m.Returning
		r.Table = m.Table
		return r.Validate()
	}
	return nil
}
