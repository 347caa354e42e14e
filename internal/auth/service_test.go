package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubSessionStore struct {
	storedSession string
	revoked       string
}

func (s *stubSessionStore) StoreSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	s.storedSession = sessionID
	return nil
}

func (s *stubSessionStore) RevokeSession(ctx context.Context, sessionID string) error {
	s.revoked = sessionID
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "staysupply-test",
		ExpirationMinutes: 60,
		SessionTTLMinutes: 60,
	}
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		Name:         "Owner",
		PasswordHash: hash,
		Role:         enums.UserRoleOwner,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "correct horse")
	sessions := &stubSessionStore{}
	svc, err := NewService(ServiceParams{
		UserRepo:     &stubUserRepo{user: user},
		SessionStore: sessions,
		JWTConfig:    testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct horse"})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if sessions.storedSession == "" {
		t.Fatal("expected a session to be stored")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("unexpected user %s", resp.User.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "correct horse")
	sessions := &stubSessionStore{}
	svc, _ := NewService(ServiceParams{
		UserRepo:     &stubUserRepo{user: user},
		SessionStore: sessions,
		JWTConfig:    testJWTConfig(),
	})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "battery staple"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error %v", err)
	}
	if sessions.storedSession != "" {
		t.Fatal("no session should be stored")
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		UserRepo:     &stubUserRepo{},
		SessionStore: &stubSessionStore{},
		JWTConfig:    testJWTConfig(),
	})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "anything"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown email must not be distinguishable, got %q", typed.Message())
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionStore{}
	svc, _ := NewService(ServiceParams{
		UserRepo:     &stubUserRepo{},
		SessionStore: sessions,
		JWTConfig:    testJWTConfig(),
	})

	if err := svc.Logout(context.Background(), "session-123"); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if sessions.revoked != "session-123" {
		t.Fatalf("expected session revoked got %q", sessions.revoked)
	}
}
