// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for Cart.
//
// Not-found policy: lookups return (nil, nil) when no row exists; the
// application layer decides whether that means "create" or "no-op".
//
// InTx runs fn with a transaction carried through the context; repository
// methods invoked inside fn join that transaction. Merge relies on this so
// copy-then-delete is atomic.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	GetBySessionID(ctx context.Context, sessionID string) (*Cart, error)

	// Create inserts the cart row. Implementations must surface the
	// one-cart-per-identity unique violation as ErrAlreadyExists so
	// callers can re-read the winner.
	Create(ctx context.Context, c *Cart) error

	// Delete removes the cart; line items cascade. Missing id is a no-op.
	Delete(ctx context.Context, cartID string) error

	// ReassignToUser re-points a guest cart's ownership to userID in place
	// (session_id is cleared). Used by merge when the user has no cart yet.
	ReassignToUser(ctx context.Context, cartID, userID string) error

	// UpsertItem inserts the line item, or, when a row with the same
	// (cartId, productId, attributesKey) exists, increments its quantity
	// by it.Quantity. Returns the stored row.
	UpsertItem(ctx context.Context, it *Item) (*Item, error)

	GetItem(ctx context.Context, itemID string) (*Item, error)
	SetItemQuantity(ctx context.Context, itemID string, qty int) error

	// DeleteItem removes the row; deleting an absent id is a no-op.
	DeleteItem(ctx context.Context, itemID string) error

	DeleteItems(ctx context.Context, cartID string) error
	ListItems(ctx context.Context, cartID string) ([]Item, error)

	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
