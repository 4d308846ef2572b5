package controllers

import (
	"net/http"

	"github.com/satyam539813/farmappsample/api/responses"
	"github.com/satyam539813/farmappsample/api/validators"
	"github.com/satyam539813/farmappsample/internal/auth"
	"github.com/satyam539813/farmappsample/internal/users"
	"github.com/satyam539813/farmappsample/pkg/enums"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
	"github.com/satyam539813/farmappsample/pkg/types"
)

type signInResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	User         *users.UserDTO    `json:"user"`
	Mode         enums.StorageMode `json:"mode"`
	SyncWarning  *types.Notice     `json:"sync_warning,omitempty"`
}

// AuthSignUp creates an account. The caller stays anonymous until sign-in.
func AuthSignUp(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.SignUpRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, withNotice(err, "Error signing up"))
			return
		}

		res, err := svc.SignUp(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, res.User, &res.Notice)
	}
}

// AuthSignIn exchanges credentials for a token pair and reconciles the
// device's anonymous collections into the account.
func AuthSignIn(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		sess, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req auth.SignInRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, withNotice(err, "Error signing in"))
			return
		}

		res, err := svc.SignIn(r.Context(), sess, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessNotice(w, signInResponse{
			AccessToken:  res.AccessToken,
			RefreshToken: res.RefreshToken,
			User:         res.User,
			Mode:         res.Session.Mode(),
			SyncWarning:  res.SyncWarning,
		}, &res.Notice)
	}
}

// AuthSignOut always succeeds; the device keeps its anonymous namespace.
func AuthSignOut(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		sess, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notice := svc.SignOut(r.Context(), sess)
		responses.WriteSuccessNotice(w, map[string]enums.StorageMode{"mode": enums.StorageModeLocal}, &notice)
	}
}

func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pair)
	}
}

// withNotice attaches a destructive notice to typed errors that do not carry
// one yet.
func withNotice(err error, title string) error {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Notice() != nil {
		return err
	}
	return typed.WithNotice(title, typed.Message())
}
