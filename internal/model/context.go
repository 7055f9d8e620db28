package model

import "context"

type contextKey string

const ContextUserIDKey contextKey = "user_id"

// WithUserID returns a copy of ctx carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserIDKey, userID)
}
