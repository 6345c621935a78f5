package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
)

func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.Catalog.GetStats(r.Context())
		respond(w, d, r, stats, err)
	}
}
