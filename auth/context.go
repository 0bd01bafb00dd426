package auth

import (
	"chat-notify/domain"
	"chat-notify/errors"
	"context"
	"strings"
)

type contextKey string

const UserIDKey contextKey = "user_id"

const bearerPrefix = "Bearer "

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header value. An empty or malformed value wraps ErrUnauthenticated.
func BearerToken(header string) (string, error) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", errors.ErrUnauthenticated
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", errors.ErrUnauthenticated
	}
	return token, nil
}

func WithUserID(ctx context.Context, userID domain.UserID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	userID, ok := ctx.Value(UserIDKey).(domain.UserID)
	return userID, ok
}
