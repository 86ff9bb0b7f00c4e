// internal/adapters/in/http/handler/auth_handler.go
package handler

import (
	"net/http"
	"strings"

	"voltmart/internal/adapters/in/http/middleware"
	"voltmart/internal/application/usecase"
)

// AuthHandler serves the session endpoints:
//
//	POST /api/auth/signin  finalize sign-in (provisions the user row and
//	                       folds any guest cart into the user's cart)
//	GET  /api/auth/me      current user profile
//
// Token verification itself happens in the identity middleware; by the
// time these handlers run the caller is already resolved.
type AuthHandler struct {
	auth            *usecase.AuthUsecase
	guestCookieName string
}

func NewAuthHandler(auth *usecase.AuthUsecase, guestCookieName string) *AuthHandler {
	return &AuthHandler{auth: auth, guestCookieName: guestCookieName}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/auth"), "/")

	switch {
	case rest == "signin" && r.Method == http.MethodPost:
		h.signIn(w, r)
	case rest == "me" && r.Method == http.MethodGet:
		h.me(w, r)
	case rest == "signin" || rest == "me":
		methodNotAllowed(w)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	guestSessionID := ""
	if c, err := r.Cookie(h.guestCookieName); err == nil {
		guestSessionID = strings.TrimSpace(c.Value)
	}

	signed, merged, err := h.auth.SignIn(r.Context(), u.FirebaseUID, u.Email, u.DisplayName, guestSessionID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	// The cookie is cleared only once the guest cart actually merged, so a
	// failed merge can be retried on the next sign-in.
	if merged {
		middleware.ClearGuestCookie(w, h.guestCookieName)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{
			ID:          signed.ID,
			Email:       signed.Email,
			DisplayName: signed.DisplayName,
			Role:        string(signed.Role),
		},
		"cartMerged": merged,
	})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
	})
}
