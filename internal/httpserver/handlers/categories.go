package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
)

// Categories lists categories. ?fields=min returns the reduced projection.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fields") == "min" {
			list, err := d.Catalog.ListCategoriesOptimized(r.Context())
			respond(w, d, r, list, err)
			return
		}
		list, err := d.Catalog.ListCategories(r.Context())
		respond(w, d, r, list, err)
	}
}
