// internal/adapters/in/http/middleware/identity.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	iddom "voltmart/internal/domain/identity"
	userdom "voltmart/internal/domain/user"
)

// TokenVerifier abstracts Firebase ID-token verification (fakeable in
// tests; *fbauth.Client satisfies it).
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// UserResolver maps a verified Firebase UID to the local user row.
type UserResolver interface {
	ResolveUser(ctx context.Context, firebaseUID, email, displayName string) (*userdom.User, error)
}

// context keys use a private type to avoid collisions (SA1029).
type ctxKey struct{ name string }

var (
	ctxKeyIdentity = ctxKey{name: "identity"}
	ctxKeyUser     = ctxKey{name: "currentUser"}
)

// IdentityMiddleware resolves the request identity:
//
//   - a valid Authorization bearer token resolves to the authenticated
//     user (lazily provisioned); the authenticated identity wins even when
//     a guest cookie is also present
//   - otherwise the guest-session cookie is read; when absent a fresh
//     random identifier is issued and written back (HttpOnly, site-wide,
//     30 days)
//
// A present-but-invalid bearer token is rejected with 401 rather than
// silently downgraded to a guest.
type IdentityMiddleware struct {
	Verifier     TokenVerifier
	Users        UserResolver
	CookieName   string
	CookieMaxAge int // seconds
	NewSessionID func() string
}

func (m *IdentityMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if strings.HasPrefix(authHeader, "Bearer ") {
			if m.Verifier == nil || m.Users == nil {
				http.Error(w, "identity middleware not initialized", http.StatusServiceUnavailable)
				return
			}

			idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if idToken == "" {
				writeAuthErr(w, "unauthorized: empty bearer token")
				return
			}

			token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
			if err != nil {
				writeAuthErr(w, "invalid token")
				return
			}

			uid := strings.TrimSpace(token.UID)
			if uid == "" {
				writeAuthErr(w, "invalid uid in token")
				return
			}

			email := claimString(token.Claims, "email")
			name := claimString(token.Claims, "name")

			u, err := m.Users.ResolveUser(r.Context(), uid, email, name)
			if err != nil {
				log.Printf("[identity] user resolve failed uid=%s err=%v", uid, err)
				http.Error(w, "user resolve failed", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, iddom.ForUser(u.ID))
			ctx = context.WithValue(ctx, ctxKeyUser, u)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Guest path: reuse or mint the session cookie.
		sessionID := ""
		if c, err := r.Cookie(m.CookieName); err == nil {
			sessionID = strings.TrimSpace(c.Value)
		}
		if sessionID == "" {
			if m.NewSessionID == nil {
				http.Error(w, "identity middleware not initialized", http.StatusServiceUnavailable)
				return
			}
			sessionID = m.NewSessionID()
			// Best-effort persistence; if the client drops the cookie a new
			// guest identity is issued on the next request.
			http.SetCookie(w, &http.Cookie{
				Name:     m.CookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   m.CookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxKeyIdentity, iddom.ForGuest(sessionID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClearGuestCookie expires the guest-session cookie (after a successful
// cart merge, so a stale guest identity is not reused).
func ClearGuestCookie(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// IdentityFrom returns the resolved identity for the request.
func IdentityFrom(r *http.Request) (iddom.Identity, bool) {
	v := r.Context().Value(ctxKeyIdentity)
	if v == nil {
		return iddom.Identity{}, false
	}
	ident, ok := v.(iddom.Identity)
	if !ok || ident.Validate() != nil {
		return iddom.Identity{}, false
	}
	return ident, true
}

// CurrentUser returns the authenticated user, when there is one.
func CurrentUser(r *http.Request) (*userdom.User, bool) {
	v := r.Context().Value(ctxKeyUser)
	if v == nil {
		return nil, false
	}
	u, ok := v.(*userdom.User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}

// RequireUser rejects guests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeAuthErr(w, "unauthorized: sign-in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects guests with 401 and non-admin users with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			writeAuthErr(w, "unauthorized: sign-in required")
			return
		}
		if !u.IsAdmin() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"admin role required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthErr(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

func claimString(claims map[string]any, key string) string {
	if claims == nil {
		return ""
	}
	if v, ok := claims[key]; ok {
		if s, ok2 := v.(string); ok2 {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
