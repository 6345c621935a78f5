package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
)

type favoriteRequest struct {
	ToolID string `json:"toolId"`
}

type favoriteStatus struct {
	ToolID    string `json:"toolId"`
	Favorited bool   `json:"favorited"`
}

// Favorites lists the caller's favorite tools, or with ?toolId= reports
// whether that one tool is favorited.
func Favorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if toolID := r.URL.Query().Get("toolId"); toolID != "" {
			ok, err := d.Catalog.IsFavorited(r.Context(), toolID)
			respond(w, d, r, favoriteStatus{ToolID: toolID, Favorited: ok}, err)
			return
		}
		tools, err := d.Catalog.ListFavoriteTools(r.Context())
		respond(w, d, r, tools, err)
	}
}

func AddFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req favoriteRequest
		if err := decode(w, r, &req); err != nil {
			respond(w, d, r, favoriteStatus{}, err)
			return
		}
		err := d.Catalog.AddFavorite(r.Context(), req.ToolID)
		respondStatus(w, d, r, http.StatusCreated, favoriteStatus{ToolID: req.ToolID, Favorited: true}, err)
	}
}

func RemoveFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req favoriteRequest
		if err := decode(w, r, &req); err != nil {
			respond(w, d, r, favoriteStatus{}, err)
			return
		}
		err := d.Catalog.RemoveFavorite(r.Context(), req.ToolID)
		respond(w, d, r, favoriteStatus{ToolID: req.ToolID, Favorited: false}, err)
	}
}
