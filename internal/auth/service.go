package auth

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/internal/session"
	"github.com/satyam539813/farmappsample/internal/users"
	pkgAuth "github.com/satyam539813/farmappsample/pkg/auth"
	authsession "github.com/satyam539813/farmappsample/pkg/auth/session"
	"github.com/satyam539813/farmappsample/pkg/config"
	"github.com/satyam539813/farmappsample/pkg/db"
	"github.com/satyam539813/farmappsample/pkg/db/models"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
	"github.com/satyam539813/farmappsample/pkg/types"
	"go.uber.org/multierr"
)

const invalidCredentialsMessage = "Invalid login credentials"

// Service is the session provider: account creation and session lifecycle.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
	SignIn(ctx context.Context, from session.Session, req SignInRequest) (*SignInResult, error)
	SignOut(ctx context.Context, sess session.Session) types.Notice
	Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	NeedsRehash(encoded string) bool
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, owner authsession.Owner) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, authsession.Owner, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Hasher         passwordHasher
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Hooks          []session.TransitionHook
	Logger         *logger.Logger
}

type service struct {
	users    userRepository
	hasher   passwordHasher
	sessions sessionManager
	jwtCfg   config.JWTConfig
	hooks    []session.TransitionHook
	logg     *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs the session provider.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:    params.UserRepo,
		hasher:   params.Hasher,
		sessions: params.SessionManager,
		jwtCfg:   params.JWTConfig,
		hooks:    params.Hooks,
		logg:     logg,
		validate: newValidator(),
		now:      time.Now,
	}, nil
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	if err := s.check(req); err != nil {
		return nil, err.WithNotice("Error signing up", err.Message())
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{Email: req.Email, PasswordHash: hash})
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "User already registered").
				WithNotice("Error signing up", "User already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user").
			WithNotice("Error signing up", "Your account could not be created. Please try again.")
	}

	return &SignUpResult{
		User:   users.FromModel(user),
		Notice: types.InfoNotice("Account created successfully", "Please check your email to verify your account."),
	}, nil
}

// SignIn leaves the caller's session untouched on failure. On success it
// hands the device's anonymous session to every transition hook.
func (s *service) SignIn(ctx context.Context, from session.Session, req SignInRequest) (*SignInResult, error) {
	if err := s.check(req); err != nil {
		return nil, err.WithNotice("Error signing in", err.Message())
	}

	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
			return nil, typed.WithNotice("Error signing in", invalidCredentialsMessage)
		}
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	user.LastLoginAt = &now
	s.maybeRehash(ctx, user, req.Password)

	accessID := authsession.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID, authsession.Owner{UserID: user.ID, DeviceID: from.DeviceID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	userID := user.ID
	to := session.Session{UserID: &userID, Email: user.Email, AccessID: accessID, DeviceID: from.DeviceID}
	result := &SignInResult{
		TokenPair: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		User:      users.FromModel(user),
		Session:   to,
		Notice:    types.InfoNotice("Signed in successfully", "Welcome back to FarmFresh!"),
	}

	var hookErr error
	for _, hook := range s.hooks {
		hookErr = multierr.Append(hookErr, hook.OnSignIn(ctx, from, to))
	}
	if hookErr != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "sign-in reconciliation failed", hookErr)
		warning := types.DestructiveNotice("Some items could not be synced", "Items saved on this device will be merged next time you sign in.")
		result.SyncWarning = &warning
	}
	return result, nil
}

// SignOut always succeeds; revocation and hook failures are only logged.
func (s *service) SignOut(ctx context.Context, sess session.Session) types.Notice {
	if sess.AccessID != "" {
		if err := s.sessions.Revoke(ctx, sess.AccessID); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "revoke session failed")
		}
	}
	var hookErr error
	for _, hook := range s.hooks {
		hookErr = multierr.Append(hookErr, hook.OnSignOut(ctx, sess))
	}
	if hookErr != nil {
		s.logg.Error(ctx, "sign-out hooks failed", hookErr)
	}
	return types.InfoNotice("Signed out successfully", "You have been signed out.")
}

// Refresh rotates the refresh session and mints a new access token for the
// same owner. The presented access token may be expired.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.AccessID() == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	newAccessID, newRefresh, owner, err := s.sessions.Rotate(ctx, claims.AccessID(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, authsession.ErrInvalidRefreshToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}
	if owner.UserID != claims.UserID {
		_ = s.sessions.Revoke(ctx, newAccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session owner mismatch")
	}

	access, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: owner.UserID,
		Email:  claims.Email,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) maybeRehash(ctx context.Context, user *models.User, password string) {
	if !s.hasher.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "password rehash skipped")
	}
}

func (s *service) check(req any) *pkgerrors.Error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	first := errs[0]
	return pkgerrors.New(pkgerrors.CodeValidation, first.Field()+" "+validationMessage(first)).WithDetails(details)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
