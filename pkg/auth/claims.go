package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errMissingUserID   = errors.New("token missing user id")
	errSubjectMismatch = errors.New("token subject does not match user id")
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	// JTI doubles as the refresh-session key; generated when empty.
	JTI string
}

// AccessTokenClaims is the shopper JWT. Subject mirrors UserID so generic
// JWT tooling can identify the user.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Validate is invoked by the jwt parser after the registered claims pass.
func (c AccessTokenClaims) Validate() error {
	if c.UserID == uuid.Nil {
		return errMissingUserID
	}
	if c.Subject != "" && c.Subject != c.UserID.String() {
		return errSubjectMismatch
	}
	return nil
}

// AccessID returns the jti claim.
func (c *AccessTokenClaims) AccessID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
