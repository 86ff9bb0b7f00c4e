// internal/adapters/in/http/handler/admin_handler.go
package handler

import (
	"net/http"
	"strings"

	"voltmart/internal/application/usecase"
	orderdom "voltmart/internal/domain/order"
	productdom "voltmart/internal/domain/product"
	settingsdom "voltmart/internal/domain/settings"
)

// AdminHandler serves the back-office surface (mounted behind the admin
// middleware):
//
//	GET    /api/admin/products              list incl. deactivated
//	POST   /api/admin/products              create
//	PUT    /api/admin/products/{id}         partial update
//	DELETE /api/admin/products/{id}         deactivate (soft delete)
//	GET    /api/admin/orders                list all orders (?status=)
//	PUT    /api/admin/orders/{id}/status    transition an order
//	GET    /api/admin/settings              raw settings document
//	PUT    /api/admin/settings              replace settings document
type AdminHandler struct {
	products *usecase.ProductUsecase
	orders   *usecase.OrderUsecase
	settings *usecase.SettingsUsecase
}

func NewAdminHandler(products *usecase.ProductUsecase, orders *usecase.OrderUsecase, settings *usecase.SettingsUsecase) *AdminHandler {
	return &AdminHandler{products: products, orders: orders, settings: settings}
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/admin"), "/")

	switch {
	case rest == "products" || strings.HasPrefix(rest, "products/"):
		h.serveProducts(w, r, strings.Trim(strings.TrimPrefix(rest, "products"), "/"))
	case rest == "orders" || strings.HasPrefix(rest, "orders/"):
		h.serveOrders(w, r, strings.Trim(strings.TrimPrefix(rest, "orders"), "/"))
	case rest == "settings":
		h.serveSettings(w, r)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

// ----------------------------
// products
// ----------------------------

type productPayload struct {
	SKU         string             `json:"sku"`
	Name        string             `json:"name"`
	Brand       string             `json:"brand"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	PriceCents  *int64             `json:"priceCents"`
	Stock       *int               `json:"stock"`
	Attributes  *map[string]string `json:"attributes"`
	ImageURL    *string            `json:"imageUrl"`
	Active      *bool              `json:"active"`
}

func (h *AdminHandler) serveProducts(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		h.listProducts(w, r)
	case id == "" && r.Method == http.MethodPost:
		h.createProduct(w, r)
	case id != "" && r.Method == http.MethodPut:
		h.updateProduct(w, r, id)
	case id != "" && r.Method == http.MethodDelete:
		h.deactivateProduct(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := productdom.Filter{
		Brand:    strings.TrimSpace(q.Get("brand")),
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
		// admins see deactivated products too
		ActiveOnly: false,
	}
	sort := productdom.Sort{
		Column: strings.TrimSpace(q.Get("sort")),
		Order:  strings.TrimSpace(q.Get("order")),
	}
	page := productdom.Page{
		Number:  atoiDefault(q.Get("page"), 1),
		PerPage: atoiDefault(q.Get("perPage"), 20),
	}

	res, err := h.products.List(r.Context(), filter, sort, page)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	in := usecase.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		Active:      true,
	}
	if req.PriceCents != nil {
		in.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		in.Stock = *req.Stock
	}
	if req.Attributes != nil {
		in.Attributes = *req.Attributes
	}
	if req.ImageURL != nil {
		in.ImageURL = *req.ImageURL
	}
	if req.Active != nil {
		in.Active = *req.Active
	}

	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request, id string) {
	var req productPayload
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	patch := productdom.Patch{
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
		Attributes: req.Attributes,
		ImageURL:   req.ImageURL,
		Active:     req.Active,
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		patch.Name = &v
	}
	if v := strings.TrimSpace(req.Brand); v != "" {
		patch.Brand = &v
	}
	if v := strings.TrimSpace(req.Category); v != "" {
		patch.Category = &v
	}
	if req.Description != "" {
		patch.Description = &req.Description
	}

	p, err := h.products.Update(r.Context(), id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) deactivateProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.products.Deactivate(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ----------------------------
// orders
// ----------------------------

func (h *AdminHandler) serveOrders(w http.ResponseWriter, r *http.Request, rest string) {
	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.listOrders(w, r)
	case strings.HasSuffix(rest, "/status") && r.Method == http.MethodPut:
		h.setOrderStatus(w, r, strings.TrimSuffix(rest, "/status"))
	default:
		if rest == "" {
			methodNotAllowed(w)
			return
		}
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status orderdom.Status
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		s, ok := orderdom.ParseStatus(raw)
		if !ok {
			writeErr(w, http.StatusBadRequest, "unknown status: "+raw)
			return
		}
		status = s
	}

	page := orderdom.Page{
		Number:  atoiDefault(q.Get("page"), 1),
		PerPage: atoiDefault(q.Get("perPage"), 20),
	}

	res, err := h.orders.AdminList(r.Context(), status, page)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) setOrderStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	to, ok := orderdom.ParseStatus(req.Status)
	if !ok {
		writeErr(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	o, err := h.orders.AdminSetStatus(r.Context(), orderID, to)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// ----------------------------
// settings
// ----------------------------

func (h *AdminHandler) serveSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.settings.Get(r.Context()))
	case http.MethodPut:
		var req settingsdom.Business
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		b, err := h.settings.Update(r.Context(), req)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	default:
		methodNotAllowed(w)
	}
}
