package domain

import "strings"

// AllCategories is the category selector that disables category filtering.
const AllCategories = "all"

// FilterTools narrows already loaded tools by a search term and a category name.
// The term matches name or description, case-insensitively. An empty term
// and AllCategories (or "") match everything.
func FilterTools(tools []Tool, term, categoryName string) []Tool {
	term = strings.ToLower(strings.TrimSpace(term))
	categoryName = strings.TrimSpace(categoryName)
	allCategories := categoryName == "" || strings.EqualFold(categoryName, AllCategories)

	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			continue
		}
		if !allCategories && (t.Category == nil || t.Category.Name != categoryName) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CountByCategory counts loaded tools per category, preserving category order.
func CountByCategory(categories []Category, tools []Tool) []CategoryCount {
	counts := make(map[string]int, len(categories))
	for _, t := range tools {
		if t.Category != nil {
			counts[t.Category.ID]++
		}
	}

	out := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryCount{Category: c, Count: counts[c.ID]})
	}
	return out
}
