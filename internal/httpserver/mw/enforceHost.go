package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/utils"
)

// EnforceHost restricts a route group to the given Host headers. Patterns
// are exact names or "*.example.com" wildcards, compared without the port
// and case-insensitively. An empty list lets everything through.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			patterns = append(patterns, h)
		}
	}
	if len(patterns) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("host rejected",
				logger.String("host", r.Host),
				logger.String("path", r.URL.Path))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// matchHost reports whether host equals pattern or, for "*.example.com",
// is a strict subdomain of example.com.
func matchHost(host, pattern string) bool {
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return len(host) > len(suffix) && strings.HasSuffix(host, suffix)
	}
	return host == pattern
}
