// internal/domain/wishlist/repository_port.go
package wishlist

import "context"

type Repository interface {
	// Add inserts the pair; an existing (user, product) pair is a no-op.
	Add(ctx context.Context, it *Item) error

	// Remove deletes the pair; an absent pair is a no-op.
	Remove(ctx context.Context, userID, productID string) error

	ListByUser(ctx context.Context, userID string) ([]Entry, error)
}
