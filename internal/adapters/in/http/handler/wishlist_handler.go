// internal/adapters/in/http/handler/wishlist_handler.go
package handler

import (
	"net/http"
	"strings"

	"voltmart/internal/adapters/in/http/middleware"
	"voltmart/internal/application/usecase"
)

// WishlistHandler serves the signed-in user's wishlist:
//
//	GET    /api/wishlist            list entries (joined with the catalog)
//	POST   /api/wishlist/add        add a product (re-adding is a no-op)
//	DELETE /api/wishlist/remove     remove a product (idempotent)
type WishlistHandler struct {
	wishlists *usecase.WishlistUsecase
}

func NewWishlistHandler(wishlists *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

func (h *WishlistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/wishlist"), "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.list(w, r, u.ID)
	case rest == "add" && r.Method == http.MethodPost:
		h.add(w, r, u.ID)
	case rest == "remove" && r.Method == http.MethodDelete:
		h.remove(w, r, u.ID)
	case rest == "" || rest == "add" || rest == "remove":
		methodNotAllowed(w)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *WishlistHandler) list(w http.ResponseWriter, r *http.Request, userID string) {
	entries, err := h.wishlists.List(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (h *WishlistHandler) add(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.wishlists.Add(r.Context(), userID, req.ProductID); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WishlistHandler) remove(w http.ResponseWriter, r *http.Request, userID string) {
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	if productID == "" {
		var req struct {
			ProductID string `json:"productId"`
		}
		if err := readJSON(r, &req); err == nil {
			productID = strings.TrimSpace(req.ProductID)
		}
	}
	if productID == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	if err := h.wishlists.Remove(r.Context(), userID, productID); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
