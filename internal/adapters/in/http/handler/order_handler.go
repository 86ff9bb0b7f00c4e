// internal/adapters/in/http/handler/order_handler.go
package handler

import (
	"net/http"
	"strings"

	"voltmart/internal/adapters/in/http/middleware"
	"voltmart/internal/application/usecase"
	orderdom "voltmart/internal/domain/order"
)

// OrderHandler serves the signed-in customer's orders:
//
//	POST /api/checkout     turn the cart into an order
//	GET  /api/orders       list own orders (paged)
//	GET  /api/orders/{id}  fetch own order
//
// All routes require authentication; guests have no order history.
// /api/orders/checkout is accepted as an alias of /api/checkout.
type OrderHandler struct {
	orders *usecase.OrderUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	if r.URL.Path == "/api/checkout" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.checkout(w, r, u.ID)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders"), "/")

	switch {
	case rest == "checkout" && r.Method == http.MethodPost:
		h.checkout(w, r, u.ID)
	case rest == "" && r.Method == http.MethodGet:
		h.list(w, r, u.ID)
	case rest != "" && !strings.Contains(rest, "/") && r.Method == http.MethodGet:
		h.get(w, r, u.ID, rest)
	case rest == "" || rest == "checkout":
		methodNotAllowed(w)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *OrderHandler) checkout(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		Email         string                    `json:"email"`
		Shipping      orderdom.ShippingSnapshot `json:"shipping"`
		ShippingCents int64                     `json:"shippingCents"`
	}
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	o, err := h.orders.Checkout(r.Context(), userID, usecase.CheckoutInput{
		Email:         req.Email,
		Shipping:      req.Shipping,
		ShippingCents: req.ShippingCents,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, userID string) {
	q := r.URL.Query()
	page := orderdom.Page{
		Number:  atoiDefault(q.Get("page"), 1),
		PerPage: atoiDefault(q.Get("perPage"), 20),
	}

	res, err := h.orders.ListByUser(r.Context(), userID, page)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, userID, orderID string) {
	o, err := h.orders.GetForUser(r.Context(), userID, orderID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
