package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/api/responses"
	"github.com/satyam539813/farmappsample/internal/session"
	pkgAuth "github.com/satyam539813/farmappsample/pkg/auth"
	authsession "github.com/satyam539813/farmappsample/pkg/auth/session"
	"github.com/satyam539813/farmappsample/pkg/config"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
)

// DeviceIDHeader carries the client-held id of the anonymous namespace.
const DeviceIDHeader = "X-Device-Id"

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// Session resolves the caller for every request. A bearer token must be
// valid and still backed by a refresh session; without one the request is
// anonymous. The device id is taken from X-Device-Id, minted and echoed when
// missing, and rejected with 400 when malformed.
func Session(cfg config.JWTConfig, verifier authsession.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			deviceID := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
			minted := false
			if deviceID == "" {
				deviceID = uuid.NewString()
				minted = true
			} else if !deviceIDPattern.MatchString(deviceID) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid device id").
					WithDetails(map[string]any{"header": DeviceIDHeader}))
				return
			}
			w.Header().Set(DeviceIDHeader, deviceID)

			sess := session.Anonymous(deviceID)
			if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
				resolved, err := resolveBearer(ctx, cfg, verifier, raw, deviceID)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				sess = resolved
			}

			ctx = session.WithSession(ctx, sess)
			ctx = context.WithValue(ctx, ctxDeviceMinted, minted)
			if logg != nil {
				ctx = logg.WithDeviceID(ctx, deviceID)
				if sess.Authenticated() {
					ctx = logg.WithUserID(ctx, sess.UserID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveBearer(ctx context.Context, cfg config.JWTConfig, verifier authsession.AccessSessionChecker, raw, deviceID string) (session.Session, error) {
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return session.Session{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.AccessID() == "" {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(ctx, claims.AccessID())
		if err != nil {
			return session.Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	userID := claims.UserID
	return session.Session{
		UserID:   &userID,
		Email:    claims.Email,
		AccessID: claims.AccessID(),
		DeviceID: deviceID,
	}, nil
}
