package postgres

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

var categoryEmbed = remote.Embed{
	Alias: "category", Table: "categories", ForeignKey: "category_id",
	Columns: []string{"id", "name"},
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db, nil, nil), mock
}

func TestSelectSQL(t *testing.T) {
	tests := []struct {
		name     string
		query    remote.Query
		wantSQL  string
		wantArgs int
	}{
		{
			name: "page with embed",
			query: remote.Query{
				Table: "tools", Columns: []string{"*"}, Embeds: []remote.Embed{categoryEmbed},
				Order: &remote.Order{Column: "created_at", Descending: true},
				Range: &remote.Range{From: 20, To: 39},
			},
			wantSQL: "SELECT row_to_json(r) FROM tools t0 CROSS JOIN LATERAL (SELECT t0.*, (SELECT row_to_json(e1) FROM (SELECT t1.id, t1.name FROM categories t1 WHERE t1.id = t0.category_id) e1) AS category) r ORDER BY t0.created_at DESC LIMIT 20 OFFSET 20",
		},
		{
			name: "search",
			query: remote.Query{
				Table:   "tools",
				Filters: []remote.Filter{remote.Eq("category_id", "c1")},
				AnyOf:   []remote.Filter{remote.ILike("name", "%k%"), remote.ILike("description", "%k%")},
				Limit:   5,
			},
			wantSQL:  "SELECT row_to_json(r) FROM tools t0 CROSS JOIN LATERAL (SELECT t0.*) r WHERE t0.category_id = $1 AND (t0.name ILIKE $2 OR t0.description ILIKE $3) LIMIT 5",
			wantArgs: 3,
		},
		{
			name: "ordered by rating",
			query: remote.Query{
				Table: "tools", Columns: []string{"id", "name"},
				Order: &remote.Order{Column: "rating", Descending: true},
				Limit: 6,
			},
			wantSQL: "SELECT row_to_json(r) FROM tools t0 CROSS JOIN LATERAL (SELECT t0.id, t0.name) r ORDER BY t0.rating DESC LIMIT 6",
		},
		{
			name:    "is null",
			query:   remote.Query{Table: "tools", Columns: []string{"id"}, Filters: []remote.Filter{{Column: "logo", Op: remote.OpIs}}},
			wantSQL: "SELECT row_to_json(r) FROM tools t0 CROSS JOIN LATERAL (SELECT t0.id) r WHERE t0.logo IS NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args := selectSQL(tt.query, nil)
			if got != tt.wantSQL {
				t.Errorf("selectSQL()\n got: %s\nwant: %s", got, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("selectSQL() args = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestMutationSQL(t *testing.T) {
	insert, args := insertSQL(remote.Mutation{
		Kind: remote.Insert, Table: "favorites",
		Values: map[string]any{"user_id": "u", "tool_id": "t"},
	})
	if insert != "INSERT INTO favorites (tool_id, user_id) VALUES ($1, $2) RETURNING id" || len(args) != 2 {
		t.Errorf("insertSQL() = %s %v", insert, args)
	}

	update, args := updateSQL(remote.Mutation{
		Kind: remote.Update, Table: "tools",
		Values:  map[string]any{"name": "x", "tags": []string{"a"}},
		Filters: []remote.Filter{remote.Eq("id", "t1")},
	})
	if update != "UPDATE tools t0 SET name = $1, tags = $2 WHERE t0.id = $3 RETURNING t0.id" {
		t.Errorf("updateSQL() = %s", update)
	}
	if _, ok := args[1].(driver.Valuer); !ok {
		t.Errorf("tags arg should be wrapped as an array valuer, got %T", args[1])
	}

	del, _ := deleteSQL(remote.Mutation{Kind: remote.Delete, Table: "tools", Filters: []remote.Filter{remote.Eq("id", "t1")}})
	if del != "DELETE FROM tools t0 WHERE t0.id = $1 RETURNING row_to_json(t0)" {
		t.Errorf("deleteSQL() = %s", del)
	}
}

func TestStoreSelectWithCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM tools t0")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT row_to_json(r) FROM tools t0 CROSS JOIN LATERAL (SELECT t0.*) r")).
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}).
			AddRow([]byte(`{"id":"a"}`)).
			AddRow([]byte(`{"id":"b"}`)))

	resp, err := s.Select(context.Background(), remote.Query{
		Table: "tools", Range: &remote.Range{From: 0, To: 19}, Count: true,
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if string(resp.Body) != `[{"id":"a"},{"id":"b"}]` {
		t.Errorf("Body = %s", resp.Body)
	}
	if resp.Count == nil || *resp.Count != 45 {
		t.Errorf("Count = %v, want 45", resp.Count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStoreSelectHead(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM categories t0")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))

	resp, err := s.Select(context.Background(), remote.Query{Table: "categories", Columns: []string{"id"}, Count: true, Head: true})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if resp.Body != nil || *resp.Count != 50 {
		t.Errorf("Select() = %s, %d", resp.Body, *resp.Count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStoreSelectSingle(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(".*").WithArgs("u", "t").
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}))

	_, err := s.Select(context.Background(), remote.Query{
		Table: "favorites", Columns: []string{"id"}, Single: true,
		Filters: []remote.Filter{remote.Eq("user_id", "u"), remote.Eq("tool_id", "t")},
	})
	if !remote.IsNoRows(err) {
		t.Fatalf("Select() error = %v, want no rows", err)
	}
}

func TestStoreInsertUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO favorites")).
		WithArgs("t", "u").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := s.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Insert, Table: "favorites",
		Values: map[string]any{"user_id": "u", "tool_id": "t"},
	})
	if !remote.IsUniqueViolation(err) {
		t.Fatalf("Mutate() error = %v, want unique violation", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStoreInsertReturnsRepresentation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories (name) VALUES ($1) RETURNING id")).
		WithArgs("Writing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))
	mock.ExpectQuery(regexp.QuoteMeta("t0.id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}).AddRow([]byte(`{"id":"c1","name":"Writing"}`)))
	mock.ExpectCommit()

	resp, err := s.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Insert, Table: "categories",
		Values: map[string]any{"name": "Writing"}, Single: true,
	})
	if err != nil {
		t.Fatalf("Mutate() error: %v", err)
	}
	if string(resp.Body) != `{"id":"c1","name":"Writing"}` {
		t.Errorf("Body = %s", resp.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStoreUpdateMissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tools t0 SET")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Update, Table: "tools",
		Values:  map[string]any{"name": "x"},
		Filters: []remote.Filter{remote.Eq("id", "missing")},
		Single:  true,
	})
	if !remote.IsNoRows(err) {
		t.Fatalf("Mutate() error = %v, want no rows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM tools t0 WHERE t0.id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}).AddRow([]byte(`{"id":"t1"}`)))

	resp, err := s.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Delete, Table: "tools", Filters: []remote.Filter{remote.Eq("id", "t1")},
	})
	if err != nil {
		t.Fatalf("Mutate() error: %v", err)
	}
	if string(resp.Body) != `[{"id":"t1"}]` {
		t.Errorf("Body = %s", resp.Body)
	}
}
