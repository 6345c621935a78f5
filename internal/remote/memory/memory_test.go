package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

func insert(t *testing.T, b *Backend, table string, values map[string]any) Row {
	t.Helper()
	resp, err := b.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Insert, Table: table, Values: values, Single: true,
	})
	require.NoError(t, err)
	var row Row
	require.NoError(t, json.Unmarshal(resp.Body, &row))
	return row
}

func decodeRows(t *testing.T, body []byte) []Row {
	t.Helper()
	var rows []Row
	require.NoError(t, json.Unmarshal(body, &rows))
	return rows
}

func newClockedBackend() *Backend {
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return New(WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))
}

func TestSelectRangeCountAndOrder(t *testing.T) {
	b := newClockedBackend()
	cat := insert(t, b, "categories", map[string]any{"name": "Writing"})
	for i := 0; i < 5; i++ {
		insert(t, b, "tools", map[string]any{"name": fmt.Sprintf("t%d", i), "category_id": cat["id"], "rating": float64(i)})
	}

	resp, err := b.Select(context.Background(), remote.Query{
		Table:   "tools",
		Columns: []string{"*"},
		Embeds:  []remote.Embed{{Alias: "category", Table: "categories", ForeignKey: "category_id", Columns: []string{"id", "name"}}},
		Order:   &remote.Order{Column: "created_at", Descending: true},
		Range:   &remote.Range{From: 2, To: 3},
		Count:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Count)
	require.EqualValues(t, 5, *resp.Count)

	rows := decodeRows(t, resp.Body)
	require.Len(t, rows, 2)
	require.Equal(t, "t2", rows[0]["name"])
	require.Equal(t, "t1", rows[1]["name"])

	embedded, ok := rows[0]["category"].(map[string]any)
	require.True(t, ok, "category embed missing")
	require.Equal(t, "Writing", embedded["name"])
	require.NotContains(t, embedded, "created_at")
}

func TestSelectFilters(t *testing.T) {
	b := newClockedBackend()
	cat := insert(t, b, "categories", map[string]any{"name": "Coding"})
	insert(t, b, "tools", map[string]any{"name": "Copilot", "description": "Pair programmer", "is_free": false, "category_id": cat["id"]})
	insert(t, b, "tools", map[string]any{"name": "Claude", "description": "Assistant", "is_free": true, "category_id": cat["id"]})
	insert(t, b, "tools", map[string]any{"name": "Midjourney", "description": "Images", "is_free": false})

	tests := []struct {
		name  string
		query remote.Query
		want  []string
	}{
		{
			name:  "eq bool",
			query: remote.Query{Table: "tools", Filters: []remote.Filter{remote.Eq("is_free", true)}},
			want:  []string{"Claude"},
		},
		{
			name: "ilike any of",
			query: remote.Query{Table: "tools", AnyOf: []remote.Filter{
				remote.ILike("name", "%PROGRAM%"), remote.ILike("description", "%program%"),
			}},
			want: []string{"Copilot"},
		},
		{
			name: "and with or",
			query: remote.Query{
				Table:   "tools",
				Filters: []remote.Filter{remote.Eq("category_id", cat["id"])},
				AnyOf:   []remote.Filter{remote.ILike("name", "%c%")},
				Order:   &remote.Order{Column: "name"},
			},
			want: []string{"Claude", "Copilot"},
		},
		{
			name:  "is null",
			query: remote.Query{Table: "tools", Filters: []remote.Filter{{Column: "category_id", Op: remote.OpIs, Value: nil}}},
			want:  []string{"Midjourney"},
		},
		{
			name:  "limit",
			query: remote.Query{Table: "tools", Order: &remote.Order{Column: "name"}, Limit: 1},
			want:  []string{"Claude"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := b.Select(context.Background(), tt.query)
			require.NoError(t, err)
			rows := decodeRows(t, resp.Body)
			got := make([]string, 0, len(rows))
			for _, r := range rows {
				got = append(got, r["name"].(string))
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSelectHeadAndSingle(t *testing.T) {
	b := New()
	insert(t, b, "categories", map[string]any{"name": "A"})
	insert(t, b, "categories", map[string]any{"name": "B"})

	resp, err := b.Select(context.Background(), remote.Query{Table: "categories", Columns: []string{"id"}, Count: true, Head: true})
	require.NoError(t, err)
	require.Nil(t, resp.Body)
	require.EqualValues(t, 2, *resp.Count)

	_, err = b.Select(context.Background(), remote.Query{Table: "categories", Single: true})
	require.True(t, remote.IsNoRows(err), "two rows with Single should be a no-rows error, got %v", err)

	_, err = b.Select(context.Background(), remote.Query{
		Table: "categories", Single: true, Filters: []remote.Filter{remote.Eq("name", "missing")},
	})
	require.True(t, remote.IsNoRows(err))
}

func TestFavoriteUniqueness(t *testing.T) {
	b := New()
	tool := insert(t, b, "tools", map[string]any{"name": "Claude"})
	fav := map[string]any{"user_id": "u1", "tool_id": tool["id"]}

	_, err := b.Mutate(context.Background(), remote.Mutation{Kind: remote.Insert, Table: "favorites", Values: fav})
	require.NoError(t, err)

	_, err = b.Mutate(context.Background(), remote.Mutation{Kind: remote.Insert, Table: "favorites", Values: fav})
	require.True(t, remote.IsUniqueViolation(err), "second insert: %v", err)
	require.Equal(t, 1, b.Len("favorites"))
}

func TestForeignKeyAndCascade(t *testing.T) {
	b := New()

	_, err := b.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Insert, Table: "tools", Values: map[string]any{"name": "x", "category_id": "nope"},
	})
	require.Error(t, err)

	tool := insert(t, b, "tools", map[string]any{"name": "Claude"})
	insert(t, b, "favorites", map[string]any{"user_id": "u1", "tool_id": tool["id"]})

	_, err = b.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Delete, Table: "tools", Filters: []remote.Filter{remote.Eq("id", tool["id"])},
	})
	require.NoError(t, err)
	require.Equal(t, 0, b.Len("favorites"))
}

func TestUpdateSingle(t *testing.T) {
	b := New()
	cat := insert(t, b, "categories", map[string]any{"name": "Old"})

	resp, err := b.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Update, Table: "categories",
		Values:  map[string]any{"name": "New"},
		Filters: []remote.Filter{remote.Eq("id", cat["id"])},
		Single:  true,
	})
	require.NoError(t, err)
	var row Row
	require.NoError(t, json.Unmarshal(resp.Body, &row))
	require.Equal(t, "New", row["name"])

	_, err = b.Mutate(context.Background(), remote.Mutation{
		Kind: remote.Update, Table: "categories",
		Values:  map[string]any{"name": "Ghost"},
		Filters: []remote.Filter{remote.Eq("id", "missing")},
		Single:  true,
	})
	require.True(t, remote.IsNoRows(err))
}

func TestRejectsInvalidIdentifiers(t *testing.T) {
	b := New()
	_, err := b.Select(context.Background(), remote.Query{Table: "tools; drop table tools"})
	require.Error(t, err)

	_, err = b.Select(context.Background(), remote.Query{Table: "unknown"})
	require.Error(t, err)
}
