package httputil

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Context key type to avoid collisions
type contextKey int

const userIDKey contextKey = iota

// WithUserID adds the authenticated user's id to the request context
func WithUserID(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// UserID retrieves the authenticated user's id from the request context.
// ok is false when the request never went through the auth middleware.
func UserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	return userID, ok
}
