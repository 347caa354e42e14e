package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/staysupply/staysupply-backend/pkg/auth"
	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// LoginRequest carries a login attempt.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the issued token plus the account summary.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionStore interface {
	StoreSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	RevokeSession(ctx context.Context, sessionID string) error
}

// Service authenticates users and manages their redis-backed sessions.
type Service struct {
	users    userRepository
	sessions sessionStore
	jwtCfg   config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo     userRepository
	SessionStore sessionStore
	JWTConfig    config.JWTConfig
}

func NewService(params ServiceParams) (*Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionStore == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Service{
		users:    params.UserRepo,
		sessions: params.SessionStore,
		jwtCfg:   params.JWTConfig,
	}, nil
}

// Login verifies credentials, opens a redis session, and mints a JWT whose
// jti is the session id. Unknown emails and bad passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	match, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	sessionID := uuid.NewString()
	if err := s.sessions.StoreSession(ctx, sessionID, user.ID.String(), s.jwtCfg.SessionTTL()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &LoginResponse{Token: token, User: user}, nil
}

// Logout revokes the session named by the token's jti. Revoking an already
// absent session is not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.RevokeSession(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
