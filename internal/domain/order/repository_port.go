// internal/domain/order/repository_port.go
package order

import "context"

type Repository interface {
	// Create inserts the order and its item snapshots.
	Create(ctx context.Context, o *Order) error

	// GetByID returns the order with items, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Order, error)

	List(ctx context.Context, filter Filter, page Page) (PageResult, error)

	// UpdateStatus overwrites the stored status. Transition rules are the
	// usecase's responsibility.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
