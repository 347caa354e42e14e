package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/security"
)

type stubUserStore struct {
	created   []*models.User
	createErr error
	found     *models.User
	findErr   error
}

func (s *stubUserStore) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = uuid.New()
	s.created = append(s.created, user)
	return nil
}

func (s *stubUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestRegisterDefaultsToGuest(t *testing.T) {
	store := &stubUserStore{}
	svc, err := NewService(store, testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Guest@Example.COM ",
		Name:     "Guest",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != enums.UserRoleGuest {
		t.Fatalf("role = %s, want GUEST", user.Role)
	}
	if user.Email != "guest@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	ok, err := security.VerifyPassword("hunter2hunter2", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _ := NewService(&stubUserStore{}, testPasswordConfig())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "admin@example.com",
		Name:     "Admin",
		Password: "hunter2hunter2",
		Role:     "ADMIN",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestRegisterUnknownRole(t *testing.T) {
	svc, _ := NewService(&stubUserStore{}, testPasswordConfig())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "x@example.com",
		Name:     "X",
		Password: "hunter2hunter2",
		Role:     "WIZARD",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &stubUserStore{createErr: errors.New(`duplicate key value violates unique constraint "users_email_key"`)}
	svc, _ := NewService(store, testPasswordConfig())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Name:     "Taken",
		Password: "hunter2hunter2",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestGetUnknownUser(t *testing.T) {
	store := &stubUserStore{findErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(store, testPasswordConfig())

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetDependencyFailure(t *testing.T) {
	store := &stubUserStore{findErr: errors.New("connection refused")}
	svc, _ := NewService(store, testPasswordConfig())

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
