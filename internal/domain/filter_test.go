package domain

import "testing"

func TestFilterTools(t *testing.T) {
	writing := &Category{ID: "c1", Name: "Writing"}
	coding := &Category{ID: "c2", Name: "Coding"}
	tools := []Tool{
		{ID: "1", Name: "Claude", Description: "General assistant", Category: writing},
		{ID: "2", Name: "Copilot", Description: "Code completion", Category: coding},
		{ID: "3", Name: "Orphan", Description: "no category"},
	}

	tests := []struct {
		name     string
		term     string
		category string
		wantIDs  []string
	}{
		{name: "no filters", term: "", category: AllCategories, wantIDs: []string{"1", "2", "3"}},
		{name: "empty category means all", term: "", category: "", wantIDs: []string{"1", "2", "3"}},
		{name: "term on name case-insensitive", term: "CLAU", category: "", wantIDs: []string{"1"}},
		{name: "term on description", term: "completion", category: "", wantIDs: []string{"2"}},
		{name: "category only", term: "", category: "Coding", wantIDs: []string{"2"}},
		{name: "term and category mismatch", term: "claude", category: "Coding", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTools(tools, tt.term, tt.category)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("FilterTools() returned %d tools, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("FilterTools()[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCountByCategory(t *testing.T) {
	categories := []Category{{ID: "c1", Name: "Writing"}, {ID: "c2", Name: "Coding"}, {ID: "c3", Name: "Video"}}
	tools := []Tool{
		{ID: "1", Category: &categories[0]},
		{ID: "2", Category: &categories[1]},
		{ID: "3", Category: &categories[1]},
		{ID: "4"},
	}

	got := CountByCategory(categories, tools)
	want := []int{1, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("CountByCategory() len = %d, want %d", len(got), len(want))
	}
	for i, n := range want {
		if got[i].Count != n {
			t.Errorf("CountByCategory()[%s] = %d, want %d", got[i].Name, got[i].Count, n)
		}
	}
}

func TestCategoryName(t *testing.T) {
	if got := (Tool{}).CategoryName(); got != Uncategorized {
		t.Errorf("CategoryName() = %q, want %q", got, Uncategorized)
	}
	if got := (Tool{Category: &Category{Name: "Coding"}}).CategoryName(); got != "Coding" {
		t.Errorf("CategoryName() = %q, want Coding", got)
	}
}
