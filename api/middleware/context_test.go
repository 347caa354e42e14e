package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/staysupply/staysupply-backend/pkg/enums"
	"github.com/staysupply/staysupply-backend/pkg/logger"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-123")
	if got := UserIDFromContext(ctx); got != "user-123" {
		t.Fatalf("UserIDFromContext = %q, want user-123", got)
	}
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Fatalf("empty context should yield empty id, got %q", got)
	}
}

func TestRequireRole(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole(string(enums.UserRoleOwner), logg)(next)

	req := httptest.NewRequest(http.MethodPost, "/properties", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxRole, string(enums.UserRoleOwner)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner request: status %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/properties", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxRole, string(enums.UserRoleGuest)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("guest request: status %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/properties", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous request: status %d, want 403", rec.Code)
	}
}
