package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolhub/internal/catalog"
	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
)

// Tools serves every tool listing variant:
//
//	?q=term[&category=id]  search
//	?category=id           tools of a category
//	?popular=N             top rated
//	?free=1                free tools
//	?all=1                 everything, newest first
//	?page=&limit=          one page with the total (default)
func Tools(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()
		category := strings.TrimSpace(q.Get("category"))

		switch {
		case q.Has("q"):
			tools, err := d.Catalog.SearchTools(ctx, q.Get("q"), category)
			respond(w, d, r, tools, err)

		case category != "":
			tools, err := d.Catalog.ListToolsByCategory(ctx, category)
			respond(w, d, r, tools, err)

		case q.Has("popular"):
			limit, ok, err := intParam(r, "popular")
			if err != nil {
				respond[[]domain.Tool](w, d, r, nil, err)
				return
			}
			if !ok {
				limit = catalog.DefaultPopularLimit
			}
			tools, err := d.Catalog.ListPopularTools(ctx, limit)
			respond(w, d, r, tools, err)

		case flag(r, "free"):
			tools, err := d.Catalog.ListFreeTools(ctx)
			respond(w, d, r, tools, err)

		case flag(r, "all"):
			tools, err := d.Catalog.ListTools(ctx)
			respond(w, d, r, tools, err)

		default:
			page, _, err := intParam(r, "page")
			if err != nil {
				respond(w, d, r, domain.ToolPage{}, err)
				return
			}
			limit, _, err := intParam(r, "limit")
			if err != nil {
				respond(w, d, r, domain.ToolPage{}, err)
				return
			}
			p, err := d.Catalog.ListToolsPaginated(ctx, page, limit)
			respond(w, d, r, p, err)
		}
	}
}

// Tool returns a single tool by id.
func Tool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tool, err := d.Catalog.GetTool(r.Context(), chi.URLParam(r, "id"))
		respond(w, d, r, tool, err)
	}
}
