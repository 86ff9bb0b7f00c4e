// internal/domain/wishlist/entity.go
package wishlist

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalid = errors.New("wishlist: invalid")
)

// Item is one wished product for a user. (user, product) is unique;
// adding an existing pair is a no-op.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry is an item joined with its product summary for listing.
type Entry struct {
	Item
	ProductName string `json:"productName"`
	PriceCents  int64  `json:"priceCents"`
	ImageURL    string `json:"imageUrl,omitempty"`
	InStock     bool   `json:"inStock"`
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrInvalid
	}
	if strings.TrimSpace(i.ID) == "" || strings.TrimSpace(i.UserID) == "" || strings.TrimSpace(i.ProductID) == "" {
		return ErrInvalid
	}
	return nil
}
