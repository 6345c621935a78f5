package query

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name      string
		req       Read
		wantKey   string
		cacheable bool
	}{
		{name: "categories", req: ListCategories{}, wantKey: "categories", cacheable: true},
		{name: "categories min", req: ListCategoriesMin{}, wantKey: "categories_min", cacheable: true},
		{name: "first page", req: ToolsPage{Page: 1, Limit: 20}, wantKey: "tools_1_20", cacheable: true},
		{name: "third page", req: ToolsPage{Page: 3, Limit: 10}, wantKey: "tools_3_10", cacheable: true},
		{name: "list tools", req: ListTools{}},
		{name: "search", req: SearchTools{Keyword: "x"}},
		{name: "favorites", req: ListFavorites{UserID: "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := tt.req.CacheKey()
			if ok != tt.cacheable {
				t.Fatalf("CacheKey() cacheable = %v, want %v", ok, tt.cacheable)
			}
			if key != tt.wantKey {
				t.Errorf("CacheKey() = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestCacheKeysDistinct(t *testing.T) {
	seen := map[string]Read{}
	for _, r := range []Read{
		ListCategories{}, ListCategoriesMin{},
		ToolsPage{Page: 1, Limit: 20}, ToolsPage{Page: 2, Limit: 20}, ToolsPage{Page: 1, Limit: 10},
		ToolsPage{Page: 11, Limit: 2}, ToolsPage{Page: 1, Limit: 12},
	} {
		key, _ := r.CacheKey()
		if prev, dup := seen[key]; dup {
			t.Fatalf("key %q shared by %#v and %#v", key, prev, r)
		}
		seen[key] = r
	}
}

func TestSelectToolsPage(t *testing.T) {
	q := Select(ToolsPage{Page: 3, Limit: 20})

	if q.Table != TableTools {
		t.Errorf("Table = %q, want %q", q.Table, TableTools)
	}
	if q.Range == nil || q.Range.From != 40 || q.Range.To != 59 {
		t.Errorf("Range = %+v, want 40-59", q.Range)
	}
	if !q.Count {
		t.Error("expected exact count")
	}
	if q.Order == nil || q.Order.Column != "created_at" || !q.Order.Descending {
		t.Errorf("Order = %+v, want created_at desc", q.Order)
	}
	if len(q.Embeds) != 1 || q.Embeds[0].Alias != "category" {
		t.Errorf("Embeds = %+v, want category embed", q.Embeds)
	}
	if err := q.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSelectSearch(t *testing.T) {
	q := Select(SearchTools{Keyword: "  chat ", CategoryID: "c1"})

	if len(q.AnyOf) != 2 {
		t.Fatalf("AnyOf = %+v, want name and description", q.AnyOf)
	}
	for _, f := range q.AnyOf {
		if f.Op != remote.OpILike || f.Value != "%chat%" {
			t.Errorf("AnyOf filter = %+v, want ilike %%chat%%", f)
		}
	}
	if len(q.Filters) != 1 || q.Filters[0].Value != "c1" {
		t.Errorf("Filters = %+v, want category_id eq c1", q.Filters)
	}
}

func TestSelectEveryRead(t *testing.T) {
	reads := []Read{
		ListCategories{}, ListCategoriesMin{}, ListTools{}, ToolsByCategory{CategoryID: "c"},
		SearchTools{Keyword: "k"}, PopularTools{Limit: 10}, FreeTools{}, ToolsPage{Page: 1, Limit: 20},
		GetTool{ID: "t"}, Count{Table: TableTools}, ListFavorites{UserID: "u"}, FindFavorite{UserID: "u", ToolID: "t"},
	}
	for _, r := range reads {
		if err := Select(r).Validate(); err != nil {
			t.Errorf("Select(%s).Validate() = %v", r.Kind(), err)
		}
	}
}

func TestMutateUpdateStampsTime(t *testing.T) {
	name := "Renamed"
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := Mutate(UpdateTool{ID: "t1", Patch: domain.ToolPatch{Name: &name}, Now: now})

	if m.Kind != remote.Update || m.Table != TableTools {
		t.Fatalf("mutation = %+v", m)
	}
	if m.Values["name"] != "Renamed" {
		t.Errorf("name = %v", m.Values["name"])
	}
	if m.Values["updated_at"] != "2026-01-02T03:04:05.000000Z" {
		t.Errorf("updated_at = %v", m.Values["updated_at"])
	}
	if _, ok := m.Values["rating"]; ok {
		t.Error("unset patch field should not be written")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestMutateEveryWrite(t *testing.T) {
	writes := []Write{
		CreateTool{Input: domain.ToolInput{Name: "n", Description: "d", URL: "u", CategoryID: "c"}},
		UpdateTool{ID: "t", Now: time.Now()},
		DeleteTool{ID: "t"},
		CreateCategory{Input: domain.CategoryInput{Name: "n"}},
		UpdateCategory{ID: "c", Now: time.Now()},
		DeleteCategory{ID: "c"},
		AddFavorite{UserID: "u", ToolID: "t"},
		RemoveFavorite{UserID: "u", ToolID: "t"},
	}
	for _, w := range writes {
		if err := Mutate(w).Validate(); err != nil {
			t.Errorf("Mutate(%s).Validate() = %v", w.Kind(), err)
		}
	}
}
