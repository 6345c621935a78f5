package routes

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type group struct {
	reg Registrar
	mws []Middleware
}

var groups = map[string]group{}

// Register adds a named route group with optional group-wide middlewares.
// Registering the same name twice is a programming error.
func Register(name string, reg Registrar, mws ...Middleware) {
	if _, dup := groups[name]; dup {
		panic("routes: duplicate group " + name)
	}
	groups[name] = group{reg: reg, mws: mws}
}

// RegisterAll mounts every group in name order and returns the names.
// Called once from server.New().
func RegisterAll(r chi.Router, d deps.Deps) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		g := groups[name]
		if len(g.mws) == 0 {
			g.reg(r, d)
			continue
		}
		g.reg(r.With(g.mws...), d)
	}
	return names
}
