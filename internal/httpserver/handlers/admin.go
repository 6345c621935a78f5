package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
)

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func CreateTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.ToolInput
		if err := decode(w, r, &in); err != nil {
			respond(w, d, r, domain.Tool{}, err)
			return
		}
		tool, err := d.Catalog.CreateTool(r.Context(), in)
		respondStatus(w, d, r, http.StatusCreated, tool, err)
	}
}

func UpdateTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.ToolPatch
		if err := decode(w, r, &patch); err != nil {
			respond(w, d, r, domain.Tool{}, err)
			return
		}
		tool, err := d.Catalog.UpdateTool(r.Context(), chi.URLParam(r, "id"), patch)
		respond(w, d, r, tool, err)
	}
}

func DeleteTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := d.Catalog.DeleteTool(r.Context(), id)
		respond(w, d, r, deleted{ID: id, Deleted: true}, err)
	}
}

func CreateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.CategoryInput
		if err := decode(w, r, &in); err != nil {
			respond(w, d, r, domain.Category{}, err)
			return
		}
		cat, err := d.Catalog.CreateCategory(r.Context(), in)
		respondStatus(w, d, r, http.StatusCreated, cat, err)
	}
}

func UpdateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.CategoryPatch
		if err := decode(w, r, &patch); err != nil {
			respond(w, d, r, domain.Category{}, err)
			return
		}
		cat, err := d.Catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), patch)
		respond(w, d, r, cat, err)
	}
}

func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := d.Catalog.DeleteCategory(r.Context(), id)
		respond(w, d, r, deleted{ID: id, Deleted: true}, err)
	}
}

// CacheKeys lists the request signatures currently cached.
func CacheKeys(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := d.Catalog.CachedKeys(r.Context())
		if keys == nil {
			keys = []string{}
		}
		respond(w, d, r, keys, err)
	}
}

// FlushCache drops every cached response.
func FlushCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Catalog.FlushCache(r.Context())
		respond(w, d, r, map[string]bool{"flushed": true}, err)
	}
}

// WarmCache triggers a manual run of the cache warmer.
func WarmCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.WarmTrigger == nil {
			fail(w, http.StatusServiceUnavailable, "cache warmer is disabled")
			return
		}

		select {
		case d.WarmTrigger <- struct{}{}:
			d.Logger.Info("manual cache warm triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, domain.Resolve(map[string]bool{"triggered": true}, nil))
		default:
			d.Logger.Warn("cache warm already pending",
				logger.String("remote_ip", r.RemoteAddr))
			fail(w, http.StatusTooManyRequests, "cache warm already pending, please wait")
		}
	}
}
