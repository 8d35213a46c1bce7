package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/roles"
	"github.com/mkof14/digital-invest-sub001/internal/transport"
)

const AccessCookie = "di_access"

type identityKey struct{}

// Identity is resolved once per request from the access token and
// threaded through the context; handlers never re-derive the role.
type Identity struct {
	UserID string
	Role   string
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if v := ctx.Value(identityKey{}); v != nil {
		if id, ok := v.(Identity); ok {
			return id, true
		}
	}
	return Identity{}, false
}

// Authenticator guards the back-office routes. A static API key (used by
// server-to-server callers) acts as super_admin; browser sessions carry a
// JWT access cookie whose role claim feeds the hierarchy checks.
type Authenticator struct {
	AdminKey string
	Manager  *auth.Manager
}

// RequireRole rejects requests whose resolved identity ranks below
// minRole. The persistence-layer check behind these handlers is the
// authority; any front-end gating is a UX shortcut only.
func (a *Authenticator) RequireRole(minRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.AdminKey == "" && a.Manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if a.AdminKey != "" {
				key := r.Header.Get("X-Admin-Key")
				if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(a.AdminKey)) == 1 {
					ctx := context.WithValue(r.Context(), identityKey{}, Identity{UserID: "api-key", Role: roles.SuperAdmin})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if a.Manager != nil {
				cookie, err := r.Cookie(AccessCookie)
				if err == nil && cookie.Value != "" {
					claims, err := a.Manager.Parse(cookie.Value)
					if err == nil && claims.TokenType == auth.TokenTypeAccess {
						if !roles.HasMinimumRole(claims.Role, minRole) {
							transport.WriteError(w, http.StatusForbidden, "insufficient role", nil)
							return
						}
						ctx := context.WithValue(r.Context(), identityKey{}, Identity{UserID: claims.Subject, Role: claims.Role})
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}
