// internal/application/usecase/wishlist_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	productdom "voltmart/internal/domain/product"
	wishdom "voltmart/internal/domain/wishlist"
)

var (
	ErrWishlistInvalidArgument = errors.New("wishlist_usecase: invalid argument")
)

type WishlistUsecase struct {
	repo     wishdom.Repository
	products productdom.Repository
	clock    Clock
	newID    func() string
}

func NewWishlistUsecase(repo wishdom.Repository, products productdom.Repository) *WishlistUsecase {
	return &WishlistUsecase{
		repo:     repo,
		products: products,
		clock:    systemClock{},
		newID:    uuid.NewString,
	}
}

func NewWishlistUsecaseWithClock(repo wishdom.Repository, products productdom.Repository, clock Clock, newID func() string) *WishlistUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &WishlistUsecase{repo: repo, products: products, clock: clock, newID: newID}
}

// Add wishes a product for the user. Re-adding is a no-op.
func (uc *WishlistUsecase) Add(ctx context.Context, userID, productID string) error {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return ErrWishlistInvalidArgument
	}

	// Unknown products are rejected up front; the wishlist joins against
	// the catalog at read time.
	if _, err := uc.products.GetByID(ctx, pid); err != nil {
		return err
	}

	it := &wishdom.Item{
		ID:        uc.newID(),
		UserID:    uid,
		ProductID: pid,
		CreatedAt: uc.clock.Now(),
	}
	if err := it.Validate(); err != nil {
		return err
	}
	return uc.repo.Add(ctx, it)
}

// Remove is idempotent; removing an absent pair succeeds.
func (uc *WishlistUsecase) Remove(ctx context.Context, userID, productID string) error {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return ErrWishlistInvalidArgument
	}
	return uc.repo.Remove(ctx, uid, pid)
}

func (uc *WishlistUsecase) List(ctx context.Context, userID string) ([]wishdom.Entry, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrWishlistInvalidArgument
	}
	return uc.repo.ListByUser(ctx, uid)
}
