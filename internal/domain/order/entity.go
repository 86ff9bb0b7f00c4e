// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("order: not found")
	ErrInvalid           = errors.New("order: invalid")
	ErrInvalidTransition = errors.New("order: invalid status transition")
	ErrEmptyOrder        = errors.New("order: no items")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusPaid:
		return StatusPaid, true
	case StatusShipped:
		return StatusShipped, true
	case StatusDelivered:
		return StatusDelivered, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

// CanTransition encodes the status lifecycle:
// pending -> paid -> shipped -> delivered; cancelled from pending/paid.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusCancelled
	case StatusPaid:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered
	}
	return false
}

// ShippingSnapshot is captured at checkout time.
type ShippingSnapshot struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// ItemSnapshot is a line item frozen at checkout (name and price copied
// from the cart line, not live-looked-up afterwards).
type ItemSnapshot struct {
	ID         string `json:"id"`
	OrderID    string `json:"orderId"`
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

type Order struct {
	ID            string           `json:"id"`
	OrderNumber   string           `json:"orderNumber"`
	UserID        string           `json:"userId"`
	Status        Status           `json:"status"`
	SubtotalCents int64            `json:"subtotalCents"`
	ShippingCents int64            `json:"shippingCents"`
	TotalCents    int64            `json:"totalCents"`
	Email         string           `json:"email"`
	Shipping      ShippingSnapshot `json:"shipping"`
	Items         []ItemSnapshot   `json:"items,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrInvalid
	}
	if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.OrderNumber) == "" {
		return ErrInvalid
	}
	if strings.TrimSpace(o.UserID) == "" {
		return ErrInvalid
	}
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	for i := range o.Items {
		if strings.TrimSpace(o.Items[i].ProductID) == "" || o.Items[i].Quantity < 1 || o.Items[i].PriceCents < 0 {
			return ErrInvalid
		}
	}
	if o.SubtotalCents < 0 || o.ShippingCents < 0 || o.TotalCents < 0 {
		return ErrInvalid
	}
	return nil
}

type Filter struct {
	UserID string
	Status Status
}

type Page struct {
	Number  int
	PerPage int
}

type PageResult struct {
	Items      []Order `json:"items"`
	TotalCount int     `json:"totalCount"`
	TotalPages int     `json:"totalPages"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
}
