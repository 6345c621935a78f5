// Package query defines every request the catalog issues to the remote
// service as a tagged variant with typed parameters, along with the
// cache key of the cacheable ones.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
)

// Kind tags a request variant.
type Kind int

const (
	KindListCategories Kind = iota + 1
	KindListCategoriesMin
	KindListTools
	KindToolsByCategory
	KindSearchTools
	KindPopularTools
	KindFreeTools
	KindToolsPage
	KindGetTool
	KindCount
	KindListFavorites
	KindFindFavorite

	KindCreateTool
	KindUpdateTool
	KindDeleteTool
	KindCreateCategory
	KindUpdateCategory
	KindDeleteCategory
	KindAddFavorite
	KindRemoveFavorite
)

var kindNames = map[Kind]string{
	KindListCategories:    "list_categories",
	KindListCategoriesMin: "list_categories_min",
	KindListTools:         "list_tools",
	KindToolsByCategory:   "tools_by_category",
	KindSearchTools:       "search_tools",
	KindPopularTools:      "popular_tools",
	KindFreeTools:         "free_tools",
	KindToolsPage:         "tools_page",
	KindGetTool:           "get_tool",
	KindCount:             "count",
	KindListFavorites:     "list_favorites",
	KindFindFavorite:      "find_favorite",
	KindCreateTool:        "create_tool",
	KindUpdateTool:        "update_tool",
	KindDeleteTool:        "delete_tool",
	KindCreateCategory:    "create_category",
	KindUpdateCategory:    "update_category",
	KindDeleteCategory:    "delete_category",
	KindAddFavorite:       "add_favorite",
	KindRemoveFavorite:    "remove_favorite",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Read is a select request. Only the variants declared in this package
// implement it.
type Read interface {
	Kind() Kind
	// CacheKey returns the response cache key and whether the read is cacheable.
	CacheKey() (string, bool)
	read()
}

// Write is a mutation request. Writes are never cached.
type Write interface {
	Kind() Kind
	write()
}

// =============================================================================
// Reads
// =============================================================================

// ListCategories reads every category column, ordered by name.
type ListCategories struct{}

// ListCategoriesMin reads the reduced category projection (id, name, icon).
type ListCategoriesMin struct{}

// ListTools reads every tool with its category, newest first.
type ListTools struct{}

// ToolsByCategory reads the tools of one category, best rated first.
type ToolsByCategory struct {
	CategoryID string
}

// SearchTools matches a keyword against tool name or description.
type SearchTools struct {
	Keyword    string
	CategoryID string
}

// PopularTools reads the Limit best rated tools.
type PopularTools struct {
	Limit int
}

// FreeTools reads the tools usable without payment.
type FreeTools struct{}

// ToolsPage reads one page of tools, newest first, with the exact total.
type ToolsPage struct {
	Page  int
	Limit int
}

// GetTool reads a single tool by id.
type GetTool struct {
	ID string
}

// Count reads the exact number of rows of Table without fetching them.
type Count struct {
	Table string
}

// ListFavorites reads the favorites of a user with their tools.
type ListFavorites struct {
	UserID string
}

// FindFavorite reads the favorite linking UserID to ToolID, if any.
type FindFavorite struct {
	UserID string
	ToolID string
}

func (ListCategories) Kind() Kind    { return KindListCategories }
func (ListCategoriesMin) Kind() Kind { return KindListCategoriesMin }
func (ListTools) Kind() Kind         { return KindListTools }
func (ToolsByCategory) Kind() Kind   { return KindToolsByCategory }
func (SearchTools) Kind() Kind       { return KindSearchTools }
func (PopularTools) Kind() Kind      { return KindPopularTools }
func (FreeTools) Kind() Kind         { return KindFreeTools }
func (ToolsPage) Kind() Kind         { return KindToolsPage }
func (GetTool) Kind() Kind           { return KindGetTool }
func (Count) Kind() Kind             { return KindCount }
func (ListFavorites) Kind() Kind     { return KindListFavorites }
func (FindFavorite) Kind() Kind      { return KindFindFavorite }

func (ListCategories) CacheKey() (string, bool)    { return "categories", true }
func (ListCategoriesMin) CacheKey() (string, bool) { return "categories_min", true }
func (ListTools) CacheKey() (string, bool)         { return "", false }
func (ToolsByCategory) CacheKey() (string, bool)   { return "", false }
func (SearchTools) CacheKey() (string, bool)       { return "", false }
func (PopularTools) CacheKey() (string, bool)      { return "", false }
func (FreeTools) CacheKey() (string, bool)         { return "", false }
func (GetTool) CacheKey() (string, bool)           { return "", false }
func (Count) CacheKey() (string, bool)             { return "", false }
func (ListFavorites) CacheKey() (string, bool)     { return "", false }
func (FindFavorite) CacheKey() (string, bool)      { return "", false }

// CacheKey is tools_{page}_{limit}.
func (r ToolsPage) CacheKey() (string, bool) {
	return fmt.Sprintf("tools_%d_%d", r.Page, r.Limit), true
}

func (ListCategories) read()    {}
func (ListCategoriesMin) read() {}
func (ListTools) read()         {}
func (ToolsByCategory) read()   {}
func (SearchTools) read()       {}
func (PopularTools) read()      {}
func (FreeTools) read()         {}
func (ToolsPage) read()         {}
func (GetTool) read()           {}
func (Count) read()             {}
func (ListFavorites) read()     {}
func (FindFavorite) read()      {}

// Offset is the zero-based index of the first row of the page.
func (r ToolsPage) Offset() int { return (r.Page - 1) * r.Limit }

// Blank reports whether the search has no keyword.
func (r SearchTools) Blank() bool { return strings.TrimSpace(r.Keyword) == "" }

// =============================================================================
// Writes
// =============================================================================

// CreateTool inserts a tool.
type CreateTool struct {
	Input domain.ToolInput
}

// UpdateTool patches a tool and stamps its update time.
type UpdateTool struct {
	ID    string
	Patch domain.ToolPatch
	Now   time.Time
}

// DeleteTool removes a tool.
type DeleteTool struct {
	ID string
}

// CreateCategory inserts a category.
type CreateCategory struct {
	Input domain.CategoryInput
}

// UpdateCategory patches a category and stamps its update time.
type UpdateCategory struct {
	ID    string
	Patch domain.CategoryPatch
	Now   time.Time
}

// DeleteCategory removes a category.
type DeleteCategory struct {
	ID string
}

// AddFavorite links a user to a tool.
type AddFavorite struct {
	UserID string
	ToolID string
}

// RemoveFavorite unlinks a user from a tool.
type RemoveFavorite struct {
	UserID string
	ToolID string
}

func (CreateTool) Kind() Kind     { return KindCreateTool }
func (UpdateTool) Kind() Kind     { return KindUpdateTool }
func (DeleteTool) Kind() Kind     { return KindDeleteTool }
func (CreateCategory) Kind() Kind { return KindCreateCategory }
func (UpdateCategory) Kind() Kind { return KindUpdateCategory }
func (DeleteCategory) Kind() Kind { return KindDeleteCategory }
func (AddFavorite) Kind() Kind    { return KindAddFavorite }
func (RemoveFavorite) Kind() Kind { return KindRemoveFavorite }

func (CreateTool) write()     {}
func (UpdateTool) write()     {}
func (DeleteTool) write()     {}
func (CreateCategory) write() {}
func (UpdateCategory) write() {}
func (DeleteCategory) write() {}
func (AddFavorite) write()    {}
func (RemoveFavorite) write() {}
