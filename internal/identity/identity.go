// Package identity carries the current user through a request context.
package identity

import (
	"context"
	"strings"
)

type ctxKey struct{}

// WithUser returns a context carrying userID. A blank id leaves ctx unchanged.
func WithUser(ctx context.Context, userID string) context.Context {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, userID)
}

// FromContext returns the current user id, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
