package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/roles"
)

func testAuthenticator() *Authenticator {
	return &Authenticator{
		AdminKey: "secret-key",
		Manager: &auth.Manager{
			Secret:     []byte("test-secret"),
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
			Issuer:     "digital-invest-backend",
		},
	}
}

func okHandler(t *testing.T, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from context")
		}
		if wantRole != "" && id.Role != wantRole {
			t.Fatalf("identity role = %s, want %s", id.Role, wantRole)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRoleAPIKey(t *testing.T) {
	a := testAuthenticator()
	handler := a.RequireRole(roles.SuperAdmin)(okHandler(t, roles.SuperAdmin))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("X-Admin-Key", "secret-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRoleCookie(t *testing.T) {
	a := testAuthenticator()
	token, err := a.Manager.NewAccessToken("user-1", roles.Editor)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := a.RequireRole(roles.Viewer)(okHandler(t, roles.Editor))
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRoleInsufficient(t *testing.T) {
	a := testAuthenticator()
	token, err := a.Manager.NewAccessToken("user-1", roles.Viewer)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := a.RequireRole(roles.Admin)(okHandler(t, ""))
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleRejectsRefreshTokenCookie(t *testing.T) {
	a := testAuthenticator()
	token, err := a.Manager.NewRefreshToken("user-1", roles.SuperAdmin)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := a.RequireRole(roles.Viewer)(okHandler(t, ""))
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for refresh token in access cookie", rec.Code)
	}
}

func TestRequireRoleMissingCredentials(t *testing.T) {
	a := testAuthenticator()
	handler := a.RequireRole(roles.Viewer)(okHandler(t, ""))
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleNotConfigured(t *testing.T) {
	a := &Authenticator{}
	handler := a.RequireRole(roles.Viewer)(okHandler(t, ""))
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
