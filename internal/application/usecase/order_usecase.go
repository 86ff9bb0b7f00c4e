// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	cartdom "voltmart/internal/domain/cart"
	orderdom "voltmart/internal/domain/order"
	productdom "voltmart/internal/domain/product"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrOrderEmptyCart       = errors.New("order_usecase: cart is empty")
	ErrOrderForbidden       = errors.New("order_usecase: order belongs to another user")
)

// OrderMailer is the outbound confirmation-mail port.
type OrderMailer interface {
	SendConfirmation(ctx context.Context, o *orderdom.Order) error
}

// OrderUsecase orchestrates checkout and order management.
//
// Checkout runs stock decrement, order creation and cart consumption in a
// single transaction (the cart repository's InTx carries the tx through
// the context, so the product/order repositories join it). The
// confirmation mail is sent after commit, best-effort.
type OrderUsecase struct {
	orders   orderdom.Repository
	carts    cartdom.Repository
	products productdom.Repository
	mailer   OrderMailer // nil disables confirmation mail
	clock    Clock
	newID    func() string
}

func NewOrderUsecase(orders orderdom.Repository, carts cartdom.Repository, products productdom.Repository, mailer OrderMailer) *OrderUsecase {
	return &OrderUsecase{
		orders:   orders,
		carts:    carts,
		products: products,
		mailer:   mailer,
		clock:    systemClock{},
		newID:    uuid.NewString,
	}
}

func NewOrderUsecaseWithClock(orders orderdom.Repository, carts cartdom.Repository, products productdom.Repository, mailer OrderMailer, clock Clock, newID func() string) *OrderUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &OrderUsecase{orders: orders, carts: carts, products: products, mailer: mailer, clock: clock, newID: newID}
}

// CheckoutInput is the storefront checkout payload.
type CheckoutInput struct {
	Email         string
	Shipping      orderdom.ShippingSnapshot
	ShippingCents int64
}

// Checkout turns the authenticated user's cart into an order.
func (uc *OrderUsecase) Checkout(ctx context.Context, userID string, in CheckoutInput) (*orderdom.Order, error) {
	uid := strings.TrimSpace(userID)
	email := strings.TrimSpace(in.Email)
	if uid == "" || email == "" {
		return nil, ErrOrderInvalidArgument
	}
	if in.ShippingCents < 0 {
		return nil, ErrOrderInvalidArgument
	}

	var created *orderdom.Order

	err := uc.carts.InTx(ctx, func(ctx context.Context) error {
		c, err := uc.carts.GetByUserID(ctx, uid)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrOrderEmptyCart
		}

		items, err := uc.carts.ListItems(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrOrderEmptyCart
		}

		now := uc.clock.Now()
		orderID := uc.newID()

		o := &orderdom.Order{
			ID:          orderID,
			OrderNumber: newOrderNumber(orderID),
			UserID:      uid,
			Status:      orderdom.StatusPending,
			Email:       email,
			Shipping:    in.Shipping,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		for i := range items {
			line := &items[i]

			// Stock is reserved inside the tx; any shortage aborts the
			// whole checkout.
			if err := uc.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			p, err := uc.products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}

			o.Items = append(o.Items, orderdom.ItemSnapshot{
				ID:         uc.newID(),
				OrderID:    orderID,
				ProductID:  line.ProductID,
				Name:       p.Name,
				Quantity:   line.Quantity,
				PriceCents: line.PriceCents,
			})
		}

		o.SubtotalCents = cartdom.Subtotal(items)
		o.ShippingCents = in.ShippingCents
		o.TotalCents = o.SubtotalCents + o.ShippingCents

		if err := o.Validate(); err != nil {
			return err
		}
		if err := uc.orders.Create(ctx, o); err != nil {
			return err
		}
		if err := uc.carts.DeleteItems(ctx, c.ID); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effect: the order stands even when mail fails.
	if uc.mailer != nil {
		if merr := uc.mailer.SendConfirmation(ctx, created); merr != nil {
			log.Printf("[order_uc] WARN: confirmation mail failed orderNumber=%s err=%v", created.OrderNumber, merr)
		}
	}

	return created, nil
}

// GetForUser returns the order only when it belongs to userID.
func (uc *OrderUsecase) GetForUser(ctx context.Context, userID, orderID string) (*orderdom.Order, error) {
	uid := strings.TrimSpace(userID)
	oid := strings.TrimSpace(orderID)
	if uid == "" || oid == "" {
		return nil, ErrOrderInvalidArgument
	}

	o, err := uc.orders.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if o.UserID != uid {
		return nil, ErrOrderForbidden
	}
	return o, nil
}

func (uc *OrderUsecase) ListByUser(ctx context.Context, userID string, page orderdom.Page) (orderdom.PageResult, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return orderdom.PageResult{}, ErrOrderInvalidArgument
	}
	return uc.orders.List(ctx, orderdom.Filter{UserID: uid}, page)
}

// AdminList lists all orders, optionally filtered by status.
func (uc *OrderUsecase) AdminList(ctx context.Context, status orderdom.Status, page orderdom.Page) (orderdom.PageResult, error) {
	return uc.orders.List(ctx, orderdom.Filter{Status: status}, page)
}

// AdminSetStatus applies a status transition, rejecting illegal ones.
func (uc *OrderUsecase) AdminSetStatus(ctx context.Context, orderID string, to orderdom.Status) (*orderdom.Order, error) {
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return nil, ErrOrderInvalidArgument
	}

	o, err := uc.orders.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !orderdom.CanTransition(o.Status, to) {
		return nil, orderdom.ErrInvalidTransition
	}
	if err := uc.orders.UpdateStatus(ctx, oid, to); err != nil {
		return nil, err
	}

	o.Status = to
	return o, nil
}

func newOrderNumber(orderID string) string {
	id := strings.ReplaceAll(orderID, "-", "")
	if len(id) > 10 {
		id = id[:10]
	}
	return fmt.Sprintf("VM-%s", strings.ToUpper(id))
}
