// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidCart   = errors.New("cart: invalid")
	ErrInvalidItem   = errors.New("cart: invalid item")
	ErrNotFound      = errors.New("cart: not found")
	ErrAlreadyExists = errors.New("cart: already exists for identity")
)

// Cart is one cart row. Exactly one of UserID / SessionID is set; that
// pairing is also enforced by unique partial indexes at the persistence
// layer so concurrent get-or-create races fail safe.
type Cart struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is one line item. Price is snapshotted at add time, not live-looked-up.
// Uniqueness inside a cart is (ProductID, AttributesKey).
type Item struct {
	ID         string            `json:"id"`
	CartID     string            `json:"cartId"`
	ProductID  string            `json:"productId"`
	Quantity   int               `json:"quantity"`
	PriceCents int64             `json:"priceCents"`
	Attributes map[string]string `json:"selectedAttributes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCart creates a cart owned by a user or a guest session (exactly one).
func NewCart(id, userID, sessionID string, now time.Time) (*Cart, error) {
	uid := strings.TrimSpace(userID)
	sid := strings.TrimSpace(sessionID)
	c := &Cart{
		ID:        strings.TrimSpace(id),
		UserID:    uid,
		SessionID: sid,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	if (c.UserID == "") == (c.SessionID == "") {
		return ErrInvalidCart
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCart
	}
	return nil
}

// NewItem validates and normalizes a line item.
func NewItem(id, cartID, productID string, qty int, priceCents int64, attrs map[string]string, now time.Time) (*Item, error) {
	it := &Item{
		ID:         strings.TrimSpace(id),
		CartID:     strings.TrimSpace(cartID),
		ProductID:  strings.TrimSpace(productID),
		Quantity:   qty,
		PriceCents: priceCents,
		Attributes: NormalizeAttributes(attrs),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := it.Validate(); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Item) Validate() error {
	if it == nil {
		return ErrInvalidItem
	}
	if strings.TrimSpace(it.ID) == "" || strings.TrimSpace(it.CartID) == "" {
		return ErrInvalidItem
	}
	if strings.TrimSpace(it.ProductID) == "" {
		return ErrInvalidItem
	}
	if it.Quantity < 1 || it.PriceCents < 0 {
		return ErrInvalidItem
	}
	return nil
}

// Key returns the coalescing key of the item inside its cart.
func (it *Item) Key() string {
	return AttributesKey(it.Attributes)
}

// NormalizeAttributes trims keys/values and drops empty pairs.
func NormalizeAttributes(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// AttributesKey renders attributes as a deterministic string
// ("color=grey;size=15"), used by the UNIQUE(cart_id, product_id,
// attributes_key) index to coalesce duplicate rows.
func AttributesKey(attrs map[string]string) string {
	norm := NormalizeAttributes(attrs)
	if len(norm) == 0 {
		return ""
	}
	keys := make([]string, 0, len(norm))
	for k := range norm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(norm[k])
	}
	return b.String()
}

// Subtotal sums quantity * snapshot price over items.
func Subtotal(items []Item) int64 {
	var sum int64
	for i := range items {
		sum += int64(items[i].Quantity) * items[i].PriceCents
	}
	return sum
}
