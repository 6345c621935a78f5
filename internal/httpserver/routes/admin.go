package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/mw"
)

func init() { Register("admin", registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	admin := r.With(mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

	admin.Post("/api/admin/tools", handlers.CreateTool(d))
	admin.Put("/api/admin/tools/{id}", handlers.UpdateTool(d))
	admin.Delete("/api/admin/tools/{id}", handlers.DeleteTool(d))

	admin.Post("/api/admin/categories", handlers.CreateCategory(d))
	admin.Put("/api/admin/categories/{id}", handlers.UpdateCategory(d))
	admin.Delete("/api/admin/categories/{id}", handlers.DeleteCategory(d))

	admin.Get("/api/admin/cache/keys", handlers.CacheKeys(d))
	admin.Post("/api/admin/cache/flush", handlers.FlushCache(d))
	admin.Post("/api/admin/cache/warm", handlers.WarmCache(d))
}
