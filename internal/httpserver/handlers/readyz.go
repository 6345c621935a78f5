package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
)

type componentStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz pings the remote data service and the response cache.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"remote": check(d.Catalog.Ping(ctx)),
			"cache":  check(d.Catalog.PingCache(ctx)),
		}

		ready := true
		for name, c := range components {
			if !c.OK {
				ready = false
				d.Logger.Warn("readiness check failed",
					logger.String("component", name),
					logger.String("error", c.Error))
			}
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Components: components})
	}
}

func check(err error) componentStatus {
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{OK: true}
}
