// internal/adapters/in/http/middleware/identity_test.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iddom "voltmart/internal/domain/identity"
	userdom "voltmart/internal/domain/user"
)

type fakeVerifier struct {
	uid string
	err error
}

func (v *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &fbauth.Token{
		UID:    v.uid,
		Claims: map[string]any{"email": "a@example.com", "name": "Ada"},
	}, nil
}

type fakeResolver struct {
	user *userdom.User
	err  error
}

func (r *fakeResolver) ResolveUser(ctx context.Context, firebaseUID, email, displayName string) (*userdom.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.user, nil
}

func newTestMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{
		Verifier:     &fakeVerifier{uid: "fb-1"},
		Users:        &fakeResolver{user: &userdom.User{ID: "u1", FirebaseUID: "fb-1", Role: userdom.RoleCustomer}},
		CookieName:   "vm_guest_session",
		CookieMaxAge: 3600,
		NewSessionID: func() string { return "generated-session" },
	}
}

func capture(m *IdentityMiddleware, r *http.Request) (*httptest.ResponseRecorder, iddom.Identity, bool) {
	var got iddom.Identity
	var ok bool
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFrom(r)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec, got, ok
}

func TestIdentityGuest(t *testing.T) {
	t.Run("mints a cookie for a fresh visitor", func(t *testing.T) {
		m := newTestMiddleware()
		rec, ident, ok := capture(m, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

		require.True(t, ok)
		assert.True(t, ident.IsGuest())
		assert.Equal(t, "generated-session", ident.SessionID)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "vm_guest_session", c.Name)
		assert.Equal(t, "generated-session", c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 3600, c.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("reuses an existing cookie without re-setting it", func(t *testing.T) {
		m := newTestMiddleware()
		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.AddCookie(&http.Cookie{Name: "vm_guest_session", Value: "existing"})

		rec, ident, ok := capture(m, r)
		require.True(t, ok)
		assert.Equal(t, "existing", ident.SessionID)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestIdentityBearer(t *testing.T) {
	t.Run("valid token resolves the user and wins over the cookie", func(t *testing.T) {
		m := newTestMiddleware()
		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Bearer token")
		r.AddCookie(&http.Cookie{Name: "vm_guest_session", Value: "existing"})

		var user *userdom.User
		var ident iddom.Identity
		var ok bool
		h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ = CurrentUser(r)
			ident, ok = IdentityFrom(r)
			w.WriteHeader(http.StatusOK)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, user)
		assert.Equal(t, "u1", user.ID)
		require.True(t, ok)
		assert.True(t, ident.IsUser())
		assert.Equal(t, "u1", ident.UserID)
	})

	t.Run("invalid token is rejected, not downgraded", func(t *testing.T) {
		m := newTestMiddleware()
		m.Verifier = &fakeVerifier{err: errors.New("expired")}

		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Bearer bad")

		rec, _, ok := capture(m, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, ok)
	})

	t.Run("no verifier configured yields 503 for bearer requests", func(t *testing.T) {
		m := newTestMiddleware()
		m.Verifier = nil

		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Bearer token")

		rec, _, _ := capture(m, r)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("guest gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("customer gets 403", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		ctx := context.WithValue(r.Context(), ctxKeyUser, &userdom.User{ID: "u1", Role: userdom.RoleCustomer})
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, r.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		ctx := context.WithValue(r.Context(), ctxKeyUser, &userdom.User{ID: "u1", Role: userdom.RoleAdmin})
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, r.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
