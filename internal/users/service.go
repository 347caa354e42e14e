package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/security"
)

// Store is the persistence surface the user service depends on.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=GUEST OWNER MANAGER"`
}

// Service owns user registration and profile reads.
type Service struct {
	store       Store
	passwordCfg config.PasswordConfig
}

func NewService(store Store, passwordCfg config.PasswordConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	return &Service{store: store, passwordCfg: passwordCfg}, nil
}

// Register creates a user with a hashed password. Self-service signup never
// grants the ADMIN role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	role := enums.UserRoleGuest
	if input.Role != "" {
		parsed, err := enums.ParseUserRole(input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if parsed == enums.UserRoleAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot self-register as admin")
		}
		role = parsed
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

// Get returns a user profile.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
