package middleware

import (
	"context"

	"github.com/satyam539813/farmappsample/internal/session"
)

type contextKey string

const ctxDeviceMinted contextKey = "device_minted"

// UserIDFromContext returns the signed-in user id, or "" for anonymous
// requests.
func UserIDFromContext(ctx context.Context) string {
	sess, ok := session.FromContext(ctx)
	if !ok || !sess.Authenticated() {
		return ""
	}
	return sess.UserID.String()
}

// DeviceIDFromContext returns the device id resolved for the request.
func DeviceIDFromContext(ctx context.Context) string {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return ""
	}
	return sess.DeviceID
}

// DeviceMinted reports whether the device id was generated for this request.
func DeviceMinted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(ctxDeviceMinted).(bool)
	return v
}
