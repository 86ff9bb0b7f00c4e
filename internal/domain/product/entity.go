// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("product: not found")
	ErrInvalid      = errors.New("product: invalid")
	ErrDuplicateSKU = errors.New("product: duplicate sku")
	ErrOutOfStock   = errors.New("product: insufficient stock")
)

type Product struct {
	ID          string            `json:"id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	PriceCents  int64             `json:"priceCents"`
	Stock       int               `json:"stock"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalid
	}
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.SKU) == "" || strings.TrimSpace(p.Name) == "" {
		return ErrInvalid
	}
	if p.PriceCents < 0 || p.Stock < 0 {
		return ErrInvalid
	}
	return nil
}

// Patch represents partial updates. A nil field means "no change".
type Patch struct {
	Name        *string
	Brand       *string
	Category    *string
	Description *string
	PriceCents  *int64
	Stock       *int
	Attributes  *map[string]string
	ImageURL    *string
	Active      *bool
}

// Filter narrows catalog listings.
type Filter struct {
	Brand      string
	Category   string
	ActiveOnly bool
	MinPrice   *int64
	MaxPrice   *int64
	Search     string // matched against name
}

type Sort struct {
	Column string // name | price | created
	Order  string // asc | desc
}

type Page struct {
	Number  int
	PerPage int
}

type PageResult struct {
	Items      []Product `json:"items"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PerPage    int       `json:"perPage"`
}
