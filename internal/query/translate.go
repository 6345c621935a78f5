package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

const (
	TableTools      = "tools"
	TableCategories = "categories"
	TableFavorites  = "favorites"
)

// categoryEmbed is the category snapshot joined into every tool read.
var categoryEmbed = remote.Embed{
	Alias:      "category",
	Table:      TableCategories,
	ForeignKey: "category_id",
	Columns:    []string{"id", "name", "description", "icon"},
}

var toolEmbed = remote.Embed{
	Alias:      "tool",
	Table:      TableTools,
	ForeignKey: "tool_id",
	Columns:    []string{"*"},
	Embeds:     []remote.Embed{categoryEmbed},
}

func toolsQuery() remote.Query {
	return remote.Query{
		Table:   TableTools,
		Columns: []string{"*"},
		Embeds:  []remote.Embed{categoryEmbed},
	}
}

func byRating() *remote.Order  { return &remote.Order{Column: "rating", Descending: true} }
func byNewest() *remote.Order  { return &remote.Order{Column: "created_at", Descending: true} }
func byNameAsc() *remote.Order { return &remote.Order{Column: "name"} }

// Select translates a read into the remote query it issues.
func Select(r Read) remote.Query {
	switch r := r.(type) {
	case ListCategories:
		return remote.Query{Table: TableCategories, Columns: []string{"*"}, Order: byNameAsc()}

	case ListCategoriesMin:
		return remote.Query{Table: TableCategories, Columns: []string{"id", "name", "icon"}, Order: byNameAsc()}

	case ListTools:
		q := toolsQuery()
		q.Order = byNewest()
		return q

	case ToolsByCategory:
		q := toolsQuery()
		q.Filters = []remote.Filter{remote.Eq("category_id", r.CategoryID)}
		q.Order = byRating()
		return q

	case SearchTools:
		pattern := "%" + strings.TrimSpace(r.Keyword) + "%"
		q := toolsQuery()
		q.AnyOf = []remote.Filter{remote.ILike("name", pattern), remote.ILike("description", pattern)}
		if r.CategoryID != "" {
			q.Filters = []remote.Filter{remote.Eq("category_id", r.CategoryID)}
		}
		q.Order = byRating()
		return q

	case PopularTools:
		q := toolsQuery()
		q.Order = byRating()
		q.Limit = r.Limit
		return q

	case FreeTools:
		q := toolsQuery()
		q.Filters = []remote.Filter{remote.Eq("is_free", true)}
		q.Order = byRating()
		return q

	case ToolsPage:
		q := toolsQuery()
		q.Order = byNewest()
		q.Range = &remote.Range{From: r.Offset(), To: r.Offset() + r.Limit - 1}
		q.Count = true
		return q

	case GetTool:
		q := toolsQuery()
		q.Filters = []remote.Filter{remote.Eq("id", r.ID)}
		q.Single = true
		return q

	case Count:
		return remote.Query{Table: r.Table, Columns: []string{"id"}, Count: true, Head: true}

	case ListFavorites:
		return remote.Query{
			Table:   TableFavorites,
			Columns: []string{"id", "user_id", "tool_id", "created_at"},
			Embeds:  []remote.Embed{toolEmbed},
			Filters: []remote.Filter{remote.Eq("user_id", r.UserID)},
			Order:   byNewest(),
		}

	case FindFavorite:
		return remote.Query{
			Table:   TableFavorites,
			Columns: []string{"id"},
			Filters: []remote.Filter{remote.Eq("user_id", r.UserID), remote.Eq("tool_id", r.ToolID)},
			Single:  true,
		}
	}
	panic(fmt.Sprintf("query: unhandled read %T", r))
}

// Mutate translates a write into the remote mutation it issues.
func Mutate(w Write) remote.Mutation {
	switch w := w.(type) {
	case CreateTool:
		in := w.Input
		values := map[string]any{
			"name":        in.Name,
			"description": in.Description,
			"category_id": in.CategoryID,
			"is_free":     in.IsFree,
			"rating":      in.Rating,
			"url":         in.URL,
		}
		if in.Logo != "" {
			values["logo"] = in.Logo
		}
		if in.Tags != nil {
			values["tags"] = in.Tags
		}
		return remote.Mutation{Kind: remote.Insert, Table: TableTools, Values: values, Returning: toolReturning(), Single: true}

	case UpdateTool:
		p := w.Patch
		values := map[string]any{"updated_at": stamp(w.Now)}
		setIf(values, "name", p.Name)
		setIf(values, "description", p.Description)
		setIf(values, "logo", p.Logo)
		setIf(values, "category_id", p.CategoryID)
		setIf(values, "url", p.URL)
		if p.IsFree != nil {
			values["is_free"] = *p.IsFree
		}
		if p.Rating != nil {
			values["rating"] = *p.Rating
		}
		if p.Tags != nil {
			values["tags"] = *p.Tags
		}
		return remote.Mutation{
			Kind: remote.Update, Table: TableTools, Values: values,
			Filters:   []remote.Filter{remote.Eq("id", w.ID)},
			Returning: toolReturning(), Single: true,
		}

	case DeleteTool:
		return remote.Mutation{Kind: remote.Delete, Table: TableTools, Filters: []remote.Filter{remote.Eq("id", w.ID)}}

	case CreateCategory:
		in := w.Input
		values := map[string]any{"name": in.Name}
		if in.Description != "" {
			values["description"] = in.Description
		}
		if in.Icon != "" {
			values["icon"] = in.Icon
		}
		return remote.Mutation{Kind: remote.Insert, Table: TableCategories, Values: values, Single: true}

	case UpdateCategory:
		p := w.Patch
		values := map[string]any{"updated_at": stamp(w.Now)}
		setIf(values, "name", p.Name)
		setIf(values, "description", p.Description)
		setIf(values, "icon", p.Icon)
		return remote.Mutation{
			Kind: remote.Update, Table: TableCategories, Values: values,
			Filters: []remote.Filter{remote.Eq("id", w.ID)}, Single: true,
		}

	case DeleteCategory:
		return remote.Mutation{Kind: remote.Delete, Table: TableCategories, Filters: []remote.Filter{remote.Eq("id", w.ID)}}

	case AddFavorite:
		return remote.Mutation{
			Kind: remote.Insert, Table: TableFavorites,
			Values: map[string]any{"user_id": w.UserID, "tool_id": w.ToolID},
		}

	case RemoveFavorite:
		return remote.Mutation{
			Kind: remote.Delete, Table: TableFavorites,
			Filters: []remote.Filter{remote.Eq("user_id", w.UserID), remote.Eq("tool_id", w.ToolID)},
		}
	}
	panic(fmt.Sprintf("query: unhandled write %T", w))
}

func toolReturning() *remote.Query {
	q := toolsQuery()
	return &q
}

func setIf(values map[string]any, col string, v *string) {
	if v != nil {
		values[col] = *v
	}
}

// stamp formats timestamps the way the remote service returns them.
func stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// TimeLayout is a fixed-width RFC 3339 layout; values sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"
