// internal/domain/product/repository_port.go
package product

import "context"

type Repository interface {
	// GetByID returns ErrNotFound when no row exists.
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter Filter, sort Sort, page Page) (PageResult, error)

	// Create surfaces the sku uniqueness violation as ErrDuplicateSKU.
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, patch Patch) (*Product, error)
	Delete(ctx context.Context, id string) error

	// DecrementStock subtracts qty atomically and returns ErrOutOfStock
	// when the remaining stock would go negative.
	DecrementStock(ctx context.Context, id string, qty int) error
}
