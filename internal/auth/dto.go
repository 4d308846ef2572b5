package auth

import (
	"github.com/satyam539813/farmappsample/internal/session"
	"github.com/satyam539813/farmappsample/internal/users"
	"github.com/satyam539813/farmappsample/pkg/types"
)

// SignUpRequest carries the credentials of a new account.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignInRequest captures the credentials sent to the sign-in endpoint.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the token pair to rotate.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SignUpResult is returned once the account row exists.
type SignUpResult struct {
	User   *users.UserDTO
	Notice types.Notice
}

// TokenPair is a freshly minted access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignInResult contains the tokens, the resolved session and the notices
// produced by a successful sign-in. SyncWarning is set when reconciling the
// device's cart or favorites failed.
type SignInResult struct {
	TokenPair
	User        *users.UserDTO
	Session     session.Session
	Notice      types.Notice
	SyncWarning *types.Notice
}
