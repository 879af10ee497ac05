package utils

import (
	"context"

	"deliciasmz/models"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	deviceKey
)

func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session the request was authenticated
// with, if any.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(models.Session)
	return s, ok
}

func GetUserIDFromContext(ctx context.Context) string {
	s, ok := SessionFromContext(ctx)
	if !ok || s.User.ID == "" {
		return ""
	}
	return s.User.ID
}

// DeviceID identifies the client for per-device favorites.
func DeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceKey).(string)
	return id
}

func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceKey, id)
}
