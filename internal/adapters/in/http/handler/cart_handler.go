// internal/adapters/in/http/handler/cart_handler.go
package handler

import (
	"net/http"
	"strings"

	"voltmart/internal/adapters/in/http/middleware"
	"voltmart/internal/application/usecase"
	cartdom "voltmart/internal/domain/cart"
)

// CartHandler serves the cart endpoints:
//
//	GET    /api/cart         current identity's cart with items
//	POST   /api/cart/add     add a product line (coalesces duplicates)
//	PUT    /api/cart/update  overwrite a line's quantity (0 removes)
//	DELETE /api/cart/remove  remove a line (idempotent)
//	POST   /api/cart/merge   fold the guest cart into the signed-in user's
type CartHandler struct {
	carts           *usecase.CartUsecase
	guestCookieName string
}

func NewCartHandler(carts *usecase.CartUsecase, guestCookieName string) *CartHandler {
	return &CartHandler{carts: carts, guestCookieName: guestCookieName}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/cart")
	rest = strings.Trim(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.get(w, r)
	case rest == "add" && r.Method == http.MethodPost:
		h.add(w, r)
	case rest == "update" && r.Method == http.MethodPut:
		h.update(w, r)
	case rest == "remove" && r.Method == http.MethodDelete:
		h.remove(w, r)
	case rest == "merge" && r.Method == http.MethodPost:
		h.merge(w, r)
	case rest == "" || rest == "add" || rest == "update" || rest == "remove" || rest == "merge":
		methodNotAllowed(w)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

type cartItemResponse struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"productId"`
	Quantity   int               `json:"quantity"`
	PriceCents int64             `json:"priceCents"`
	Attributes map[string]string `json:"selectedAttributes,omitempty"`
}

type cartResponse struct {
	Cart          *cartdom.Cart      `json:"cart"`
	Items         []cartItemResponse `json:"items"`
	SubtotalCents int64              `json:"subtotalCents"`
}

func toCartResponse(c *cartdom.Cart, items []cartdom.Item) cartResponse {
	return cartResponse{
		Cart:          c,
		Items:         toItemResponses(items),
		SubtotalCents: cartdom.Subtotal(items),
	}
}

func toItemResponses(items []cartdom.Item) []cartItemResponse {
	out := make([]cartItemResponse, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, cartItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			PriceCents: it.PriceCents,
			Attributes: it.Attributes,
		})
	}
	return out
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "identity not resolved")
		return
	}

	c, items, err := h.carts.Get(r.Context(), ident)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c, items))
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "identity not resolved")
		return
	}

	// selectedAttributes is the documented field; attributes stays as a
	// shorthand alias.
	var req struct {
		ProductID          string            `json:"productId"`
		Quantity           int               `json:"quantity"`
		SelectedAttributes map[string]string `json:"selectedAttributes"`
		Attributes         map[string]string `json:"attributes"`
	}
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	attrs := req.SelectedAttributes
	if attrs == nil {
		attrs = req.Attributes
	}

	items, err := h.carts.AddItem(r.Context(), ident, req.ProductID, req.Quantity, attrs)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":         toItemResponses(items),
		"subtotalCents": cartdom.Subtotal(items),
	})
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "identity not resolved")
		return
	}

	var req struct {
		CartItemID string `json:"cartItemId"`
		ItemID     string `json:"itemId"`
		Quantity   int    `json:"quantity"`
	}
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	itemID := firstNonEmpty(req.CartItemID, req.ItemID)

	if err := h.carts.SetItemQuantity(r.Context(), ident, itemID, req.Quantity); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "identity not resolved")
		return
	}

	// cartItemId comes from the query for DELETE; a JSON body is accepted too.
	q := r.URL.Query()
	itemID := strings.TrimSpace(firstNonEmpty(q.Get("cartItemId"), q.Get("itemId")))
	if itemID == "" {
		var req struct {
			CartItemID string `json:"cartItemId"`
			ItemID     string `json:"itemId"`
		}
		if err := readJSON(r, &req); err == nil {
			itemID = strings.TrimSpace(firstNonEmpty(req.CartItemID, req.ItemID))
		}
	}
	if itemID == "" {
		writeErr(w, http.StatusBadRequest, "cartItemId is required")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), ident, itemID); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// merge requires a signed-in caller; the request body's userId must match
// the authenticated user so one account cannot claim another's cart.
func (h *CartHandler) merge(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	var req struct {
		UserID         string `json:"userId"`
		GuestSessionID string `json:"guestSessionId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.UserID) != "" && req.UserID != u.ID {
		writeErr(w, http.StatusForbidden, "userId does not match the signed-in user")
		return
	}

	guestSessionID := strings.TrimSpace(req.GuestSessionID)
	if guestSessionID == "" {
		if c, err := r.Cookie(h.guestCookieName); err == nil {
			guestSessionID = strings.TrimSpace(c.Value)
		}
	}
	if guestSessionID == "" {
		// Nothing to merge; the user simply has no guest history.
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	if err := h.carts.Merge(r.Context(), guestSessionID, u.ID); err != nil {
		writeDomainErr(w, err)
		return
	}

	middleware.ClearGuestCookie(w, h.guestCookieName)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
