// internal/adapters/in/http/handler/product_handler.go
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"voltmart/internal/application/usecase"
	productdom "voltmart/internal/domain/product"
)

// ProductHandler serves the public catalog:
//
//	GET /api/products       paged listing with filters
//	GET /api/products/{id}  single product
type ProductHandler struct {
	products *usecase.ProductUsecase
}

func NewProductHandler(products *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products"), "/")
	if id == "" {
		h.list(w, r)
		return
	}
	if strings.Contains(id, "/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	h.get(w, r, id)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := productdom.Filter{
		Brand:      strings.TrimSpace(q.Get("brand")),
		Category:   strings.TrimSpace(q.Get("category")),
		Search:     strings.TrimSpace(q.Get("search")),
		ActiveOnly: true, // storefront never sees deactivated products
	}
	if v := q.Get("minPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			filter.MinPrice = &n
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			filter.MaxPrice = &n
		}
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

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if !p.Active {
		// deactivated products are hidden from the storefront
		writeErr(w, http.StatusNotFound, productdom.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
