package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/mw"
)

func init() { Register("api", registerAPI, mw.Identity) }

func registerAPI(r chi.Router, d deps.Deps) {
	api := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RatePerMin,
		MaxEntries:        10_000,
		TrustProxy:        d.TrustProxy,
	}))

	api.Get("/api/categories", handlers.Categories(d))
	api.Get("/api/tools", handlers.Tools(d))
	api.Get("/api/tools/{id}", handlers.Tool(d))
	api.Get("/api/stats", handlers.Stats(d))

	api.Get("/api/favorites", handlers.Favorites(d))
	api.Post("/api/favorites", handlers.AddFavorite(d))
	api.Delete("/api/favorites", handlers.RemoveFavorite(d))
}
