package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/toolhub/internal/identity"
)

// UserHeader carries the caller's user id, set by the auth proxy in front
// of the API.
const UserHeader = "X-User-ID"

// Identity copies the user header into the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(UserHeader); id != "" {
			r = r.WithContext(identity.WithUser(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
