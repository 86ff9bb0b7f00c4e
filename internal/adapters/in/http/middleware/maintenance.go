// internal/adapters/in/http/middleware/maintenance.go
package middleware

import (
	"context"
	"net/http"
)

// MaintenanceChecker reports whether the store is in maintenance mode.
type MaintenanceChecker interface {
	MaintenanceOn(ctx context.Context) bool
}

// Maintenance returns 503 for storefront write requests while the
// maintenance flag is set. Reads stay available and admins bypass the
// gate entirely so they can turn the flag back off.
func Maintenance(check MaintenanceChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if u, ok := CurrentUser(r); ok && u.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			if check != nil && check.MaintenanceOn(r.Context()) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Retry-After", "300")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":"store is under maintenance"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
