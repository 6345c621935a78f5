// Package memory is an in-process remote backend. It keeps rows in
// memory, answers the same queries as the hosted service and enforces
// the same uniqueness rules. It backs local development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

// Row is one stored record in its JSON form.
type Row = map[string]any

const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// tableSpec describes the constraints of one table.
type tableSpec struct {
	timestamps []string
	unique     [][]string
	// refs maps a column to the table its value must exist in.
	refs map[string]string
	// cascade lists child tables whose rows referencing a deleted row are removed too.
	cascade map[string]string
}

var schema = map[string]tableSpec{
	"categories": {
		timestamps: []string{"created_at", "updated_at"},
	},
	"tools": {
		timestamps: []string{"created_at", "updated_at"},
		refs:       map[string]string{"category_id": "categories"},
		cascade:    map[string]string{"favorites": "tool_id"},
	},
	"favorites": {
		timestamps: []string{"created_at"},
		unique:     [][]string{{"user_id", "tool_id"}},
		refs:       map[string]string{"tool_id": "tools"},
	},
}

// Backend stores rows per table, in insertion order.
type Backend struct {
	mu     sync.RWMutex
	tables map[string][]Row
	now    func() time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock replaces time.Now for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates an empty backend with the catalog tables.
func New(opts ...Option) *Backend {
	b := &Backend{
		tables: make(map[string][]Row, len(schema)),
		now:    time.Now,
	}
	for name := range schema {
		b.tables[name] = nil
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ping always succeeds.
func (b *Backend) Ping(context.Context) error { return nil }

// Len returns the number of rows stored in table.
func (b *Backend) Len(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tables[table])
}

// Select runs a read query.
func (b *Backend) Select(ctx context.Context, q remote.Query) (remote.Response, error) {
	if err := ctx.Err(); err != nil {
		return remote.Response{}, err
	}
	if err := q.Validate(); err != nil {
		return remote.Response{}, badRequest(err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	rows, ok := b.tables[q.Table]
	if !ok {
		return remote.Response{}, unknownTable(q.Table)
	}

	matched, err := filterRows(rows, q.Filters, q.AnyOf)
	if err != nil {
		return remote.Response{}, badRequest(err)
	}
	if q.Order != nil {
		sortRows(matched, *q.Order)
	}

	var resp remote.Response
	if q.Count {
		n := int64(len(matched))
		resp.Count = &n
	}
	if q.Head {
		return resp, nil
	}

	matched = window(matched, q.Range, q.Limit)

	out := make([]Row, 0, len(matched))
	for _, r := range matched {
		out = append(out, b.project(r, q.Columns, q.Embeds))
	}

	body, err := encode(out, q.Single)
	if err != nil {
		return remote.Response{}, err
	}
	resp.Body = body
	return resp, nil
}

// Mutate runs a write.
func (b *Backend) Mutate(ctx context.Context, m remote.Mutation) (remote.Response, error) {
	if err := ctx.Err(); err != nil {
		return remote.Response{}, err
	}
	if err := m.Validate(); err != nil {
		return remote.Response{}, badRequest(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.tables[m.Table]; !ok {
		return remote.Response{}, unknownTable(m.Table)
	}

	var (
		written []Row
		err     error
	)
	switch m.Kind {
	case remote.Insert:
		written, err = b.insert(m)
	case remote.Update:
		written, err = b.update(m)
	case remote.Delete:
		written, err = b.delete(m)
	}
	if err != nil {
		return remote.Response{}, err
	}

	columns, embeds := []string{"*"}, []remote.Embed(nil)
	if m.Returning != nil {
		columns, embeds = m.Returning.Columns, m.Returning.Embeds
	}
	out := make([]Row, 0, len(written))
	for _, r := range written {
		out = append(out, b.project(r, columns, embeds))
	}

	body, err := encode(out, m.Single)
	if err != nil {
		return remote.Response{}, err
	}
	return remote.Response{Body: body}, nil
}

func (b *Backend) insert(m remote.Mutation) ([]Row, error) {
	row, err := normalize(m.Values)
	if err != nil {
		return nil, badRequest(err)
	}
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	stamp := b.now().UTC().Format(timeLayout)
	for _, col := range schema[m.Table].timestamps {
		if _, ok := row[col]; !ok {
			row[col] = stamp
		}
	}

	if err := b.checkConstraints(m.Table, row, ""); err != nil {
		return nil, err
	}
	b.tables[m.Table] = append(b.tables[m.Table], row)
	return []Row{row}, nil
}

func (b *Backend) update(m remote.Mutation) ([]Row, error) {
	values, err := normalize(m.Values)
	if err != nil {
		return nil, badRequest(err)
	}
	rows := b.tables[m.Table]

	var targets []int
	for i, r := range rows {
		ok, err := matchAll(r, m.Filters)
		if err != nil {
			return nil, badRequest(err)
		}
		if ok {
			targets = append(targets, i)
		}
	}
	if m.Single && len(targets) != 1 {
		return nil, remote.NoRows(len(targets))
	}

	updated := make([]Row, 0, len(targets))
	for _, i := range targets {
		next := make(Row, len(rows[i])+len(values))
		for k, v := range rows[i] {
			next[k] = v
		}
		for k, v := range values {
			next[k] = v
		}
		if err := b.checkConstraints(m.Table, next, fmt.Sprint(rows[i]["id"])); err != nil {
			return nil, err
		}
		updated = append(updated, next)
	}
	for n, i := range targets {
		rows[i] = updated[n]
	}
	return updated, nil
}

func (b *Backend) delete(m remote.Mutation) ([]Row, error) {
	rows := b.tables[m.Table]
	kept := rows[:0:0]
	var removed []Row
	for _, r := range rows {
		ok, err := matchAll(r, m.Filters)
		if err != nil {
			return nil, badRequest(err)
		}
		if ok {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	if m.Single && len(removed) != 1 {
		return nil, remote.NoRows(len(removed))
	}
	b.tables[m.Table] = kept

	for child, col := range schema[m.Table].cascade {
		for _, r := range removed {
			b.removeWhere(child, col, r["id"])
		}
	}
	return removed, nil
}

func (b *Backend) removeWhere(table, col string, value any) {
	rows := b.tables[table]
	kept := rows[:0:0]
	for _, r := range rows {
		if !equal(r[col], value) {
			kept = append(kept, r)
		}
	}
	b.tables[table] = kept
}

// checkConstraints enforces unique keys and references. selfID excludes
// the row being updated from the uniqueness scan.
func (b *Backend) checkConstraints(table string, row Row, selfID string) error {
	spec := schema[table]

	for _, key := range spec.unique {
		for _, other := range b.tables[table] {
			if selfID != "" && fmt.Sprint(other["id"]) == selfID {
				continue
			}
			same := true
			for _, col := range key {
				if !equal(other[col], row[col]) {
					same = false
					break
				}
			}
			if same {
				return &remote.Error{
					Code:    remote.ErrCodeUniqueViolation,
					Message: fmt.Sprintf("duplicate key value violates unique constraint %q", table+"_"+joinCols(key)+"_key"),
					Status:  409,
				}
			}
		}
	}

	for col, parent := range spec.refs {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		found := false
		for _, p := range b.tables[parent] {
			if equal(p["id"], v) {
				found = true
				break
			}
		}
		if !found {
			return &remote.Error{
				Code:    "23503",
				Message: fmt.Sprintf("insert or update on table %q violates foreign key constraint %q", table, table+"_"+col+"_fkey"),
				Details: fmt.Sprintf("Key (%s)=(%v) is not present in table %q.", col, v, parent),
				Status:  409,
			}
		}
	}
	return nil
}

// project keeps the requested columns of r and resolves its embeds.
func (b *Backend) project(r Row, columns []string, embeds []remote.Embed) Row {
	out := make(Row, len(r))
	if len(columns) == 0 || contains(columns, "*") {
		for k, v := range r {
			out[k] = v
		}
	} else {
		for _, c := range columns {
			out[c] = r[c]
		}
	}

	for _, e := range embeds {
		var related Row
		if ref := r[e.ForeignKey]; ref != nil {
			for _, candidate := range b.tables[e.Table] {
				if equal(candidate["id"], ref) {
					related = b.project(candidate, e.Columns, e.Embeds)
					break
				}
			}
		}
		if related == nil {
			out[e.Alias] = nil
		} else {
			out[e.Alias] = related
		}
	}
	return out
}

func window(rows []Row, rng *remote.Range, limit int) []Row {
	if rng != nil {
		if rng.From >= len(rows) {
			return nil
		}
		end := rng.To + 1
		if end > len(rows) {
			end = len(rows)
		}
		return rows[rng.From:end]
	}
	if limit > 0 && limit < len(rows) {
		return rows[:limit]
	}
	return rows
}

func encode(rows []Row, single bool) ([]byte, error) {
	if single {
		if len(rows) != 1 {
			return nil, remote.NoRows(len(rows))
		}
		return json.Marshal(rows[0])
	}
	return json.Marshal(rows)
}

// normalize converts values to their JSON form so stored rows compare
// the same way regardless of the Go types they were written with.
func normalize(values map[string]any) (Row, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode values: %w", err)
	}
	var row Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	return row, nil
}

func sortRows(rows []Row, o remote.Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i][o.Column], rows[j][o.Column])
		if o.Descending {
			return c > 0
		}
		return c < 0
	})
}

func badRequest(err error) *remote.Error {
	return &remote.Error{Code: "PGRST100", Message: err.Error(), Status: 400}
}

func unknownTable(table string) *remote.Error {
	return &remote.Error{Code: "42P01", Message: fmt.Sprintf("relation %q does not exist", table), Status: 404}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinCols(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += "_"
		}
		out += c
	}
	return out
}
