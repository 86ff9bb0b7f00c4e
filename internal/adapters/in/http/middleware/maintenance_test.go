// internal/adapters/in/http/middleware/maintenance_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	userdom "voltmart/internal/domain/user"
)

type staticChecker bool

func (c staticChecker) MaintenanceOn(ctx context.Context) bool { return bool(c) }

func TestMaintenance(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(on bool, r *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		Maintenance(staticChecker(on))(next).ServeHTTP(rec, r)
		return rec
	}

	t.Run("writes blocked while flag is on", func(t *testing.T) {
		rec := serve(true, httptest.NewRequest(http.MethodPost, "/api/cart/add", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "300", rec.Header().Get("Retry-After"))
	})

	t.Run("reads stay available", func(t *testing.T) {
		rec := serve(true, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("writes pass when flag is off", func(t *testing.T) {
		rec := serve(false, httptest.NewRequest(http.MethodPost, "/api/cart/add", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admins bypass the gate", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/api/admin/settings", nil)
		ctx := context.WithValue(r.Context(), ctxKeyUser, &userdom.User{ID: "u1", Role: userdom.RoleAdmin})
		rec := serve(true, r.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
