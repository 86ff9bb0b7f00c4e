// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	cartdom "voltmart/internal/domain/cart"
	iddom "voltmart/internal/domain/identity"
	productdom "voltmart/internal/domain/product"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartNotFound        = errors.New("cart_usecase: not found")
)

// CartUsecase coordinates cart operations for a resolved identity.
type CartUsecase struct {
	repo     cartdom.Repository
	products productdom.Repository
	clock    Clock
	newID    func() string
}

func NewCartUsecase(repo cartdom.Repository, products productdom.Repository) *CartUsecase {
	return &CartUsecase{
		repo:     repo,
		products: products,
		clock:    systemClock{},
		newID:    uuid.NewString,
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, products productdom.Repository, clock Clock, newID func() string) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &CartUsecase{repo: repo, products: products, clock: clock, newID: newID}
}

// GetOrCreate returns the identity's cart, creating an empty one on first
// access. Every identity maps to exactly one cart after this call; a lost
// create race (unique violation) falls back to re-reading the winner.
func (uc *CartUsecase) GetOrCreate(ctx context.Context, ident iddom.Identity) (*cartdom.Cart, error) {
	if err := ident.Validate(); err != nil {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.lookup(ctx, ident)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	now := uc.clock.Now()
	newCart, err := cartdom.NewCart(uc.newID(), ident.UserID, ident.SessionID, now)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, newCart); err != nil {
		if errors.Is(err, cartdom.ErrAlreadyExists) {
			// Concurrent first request won; use its row.
			if c, lerr := uc.lookup(ctx, ident); lerr == nil && c != nil {
				return c, nil
			}
		}
		return nil, err
	}
	return newCart, nil
}

// Get returns the cart and its line items.
func (uc *CartUsecase) Get(ctx context.Context, ident iddom.Identity) (*cartdom.Cart, []cartdom.Item, error) {
	c, err := uc.GetOrCreate(ctx, ident)
	if err != nil {
		return nil, nil, err
	}
	items, err := uc.repo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	return c, items, nil
}

// AddItem adds qty of a product, snapshotting the product's current price.
// An existing (product, attributes) line is incremented, not duplicated.
// qty must be >= 1.
func (uc *CartUsecase) AddItem(ctx context.Context, ident iddom.Identity, productID string, qty int, attrs map[string]string) ([]cartdom.Item, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" || qty <= 0 {
		return nil, ErrCartInvalidArgument
	}
	if err := ident.Validate(); err != nil {
		return nil, ErrCartInvalidArgument
	}

	p, err := uc.products.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	c, err := uc.GetOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	it, err := cartdom.NewItem(uc.newID(), c.ID, pid, qty, p.PriceCents, attrs, now)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.UpsertItem(ctx, it); err != nil {
		return nil, err
	}

	return uc.repo.ListItems(ctx, c.ID)
}

// SetItemQuantity overwrites a line item's quantity. qty <= 0 removes the
// row instead (same policy as RemoveItem).
func (uc *CartUsecase) SetItemQuantity(ctx context.Context, ident iddom.Identity, itemID string, qty int) error {
	if qty <= 0 {
		return uc.RemoveItem(ctx, ident, itemID)
	}

	it, err := uc.ownedItem(ctx, ident, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return ErrCartNotFound
	}
	return uc.repo.SetItemQuantity(ctx, it.ID, qty)
}

// RemoveItem deletes a line item. Removing an absent item succeeds.
func (uc *CartUsecase) RemoveItem(ctx context.Context, ident iddom.Identity, itemID string) error {
	it, err := uc.ownedItem(ctx, ident, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		// idempotent: nothing to remove
		return nil
	}
	return uc.repo.DeleteItem(ctx, it.ID)
}

// Merge folds the guest cart into the user's cart at sign-in.
// The whole operation runs in one transaction so a failure between
// copying items and deleting the guest cart cannot leave both behind.
//
//   - no guest cart: trivial success
//   - user has a cart: guest items are upserted into it (identical
//     product+attribute lines coalesce), then the guest cart is deleted
//   - user has no cart: the guest cart is re-owned in place (no copying)
func (uc *CartUsecase) Merge(ctx context.Context, guestSessionID, userID string) error {
	sid := strings.TrimSpace(guestSessionID)
	uid := strings.TrimSpace(userID)
	if sid == "" || uid == "" {
		return ErrCartInvalidArgument
	}

	return uc.repo.InTx(ctx, func(ctx context.Context) error {
		guest, err := uc.repo.GetBySessionID(ctx, sid)
		if err != nil {
			return err
		}
		if guest == nil {
			return nil
		}

		userCart, err := uc.repo.GetByUserID(ctx, uid)
		if err != nil {
			return err
		}

		if userCart == nil {
			err := uc.repo.ReassignToUser(ctx, guest.ID, uid)
			if !errors.Is(err, cartdom.ErrAlreadyExists) {
				return err
			}
			// A cart appeared for the user since the lookup; copy instead.
			userCart, err = uc.repo.GetByUserID(ctx, uid)
			if err != nil {
				return err
			}
			if userCart == nil {
				return cartdom.ErrNotFound
			}
		}

		items, err := uc.repo.ListItems(ctx, guest.ID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		for i := range items {
			src := &items[i]
			it, err := cartdom.NewItem(uc.newID(), userCart.ID, src.ProductID, src.Quantity, src.PriceCents, src.Attributes, now)
			if err != nil {
				return err
			}
			if _, err := uc.repo.UpsertItem(ctx, it); err != nil {
				return err
			}
		}

		return uc.repo.Delete(ctx, guest.ID)
	})
}

// ClearItems empties the cart without deleting the cart row. Used by
// checkout after the order snapshot is taken.
func (uc *CartUsecase) ClearItems(ctx context.Context, cartID string) error {
	cid := strings.TrimSpace(cartID)
	if cid == "" {
		return ErrCartInvalidArgument
	}
	return uc.repo.DeleteItems(ctx, cid)
}

// ----------------------------
// helpers
// ----------------------------

func (uc *CartUsecase) lookup(ctx context.Context, ident iddom.Identity) (*cartdom.Cart, error) {
	if ident.IsUser() {
		return uc.repo.GetByUserID(ctx, ident.UserID)
	}
	return uc.repo.GetBySessionID(ctx, ident.SessionID)
}

// ownedItem resolves itemID and checks it belongs to the identity's cart.
// Returns (nil, nil) when the item does not exist; an item owned by a
// different cart is reported as not found rather than leaked.
func (uc *CartUsecase) ownedItem(ctx context.Context, ident iddom.Identity, itemID string) (*cartdom.Item, error) {
	iid := strings.TrimSpace(itemID)
	if iid == "" {
		return nil, ErrCartInvalidArgument
	}
	if err := ident.Validate(); err != nil {
		return nil, ErrCartInvalidArgument
	}

	it, err := uc.repo.GetItem(ctx, iid)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, nil
	}

	c, err := uc.lookup(ctx, ident)
	if err != nil {
		return nil, err
	}
	if c == nil || c.ID != it.CartID {
		return nil, ErrCartNotFound
	}
	return it, nil
}
