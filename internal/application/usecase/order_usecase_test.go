// internal/application/usecase/order_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iddom "voltmart/internal/domain/identity"
	orderdom "voltmart/internal/domain/order"
	productdom "voltmart/internal/domain/product"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) SendConfirmation(ctx context.Context, o *orderdom.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, o.OrderNumber)
	return nil
}

type checkoutFixture struct {
	orders   *OrderUsecase
	carts    *CartUsecase
	orderRe  *fakeOrderRepo
	cartRe   *fakeCartRepo
	products *fakeProductRepo
	mailer   *recordingMailer
}

func newCheckoutFixture(t *testing.T, stock int) *checkoutFixture {
	t.Helper()
	p := laptop("p1", 129900)
	p.Stock = stock

	cartRe := newFakeCartRepo()
	orderRe := newFakeOrderRepo()
	products := newFakeProductRepo(p)
	mailer := &recordingMailer{}
	clock := newFixedClock()

	return &checkoutFixture{
		orders:   NewOrderUsecaseWithClock(orderRe, cartRe, products, mailer, clock, seqIDs()),
		carts:    NewCartUsecaseWithClock(cartRe, products, clock, seqIDs()),
		orderRe:  orderRe,
		cartRe:   cartRe,
		products: products,
		mailer:   mailer,
	}
}

func shippingTo(name string) orderdom.ShippingSnapshot {
	return orderdom.ShippingSnapshot{
		Name:    name,
		Street:  "1 Main St",
		City:    "Springfield",
		ZipCode: "12345",
		Country: "US",
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	userIdent := iddom.ForUser("user-1")

	t.Run("creates the order, decrements stock and empties the cart", func(t *testing.T) {
		f := newCheckoutFixture(t, 10)

		_, err := f.carts.AddItem(ctx, userIdent, "p1", 3, nil)
		require.NoError(t, err)

		o, err := f.orders.Checkout(ctx, "user-1", CheckoutInput{
			Email:         "buyer@example.com",
			Shipping:      shippingTo("Buyer"),
			ShippingCents: 999,
		})
		require.NoError(t, err)

		assert.Equal(t, orderdom.StatusPending, o.Status)
		assert.Equal(t, int64(3*129900), o.SubtotalCents)
		assert.Equal(t, int64(3*129900+999), o.TotalCents)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "Laptop p1", o.Items[0].Name)
		assert.NotEmpty(t, o.OrderNumber)

		p, err := f.products.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 7, p.Stock)

		_, items, err := f.carts.Get(ctx, userIdent)
		require.NoError(t, err)
		assert.Empty(t, items)

		assert.Equal(t, []string{o.OrderNumber}, f.mailer.sent)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newCheckoutFixture(t, 10)

		_, err := f.orders.Checkout(ctx, "user-1", CheckoutInput{Email: "buyer@example.com"})
		assert.ErrorIs(t, err, ErrOrderEmptyCart)
	})

	t.Run("insufficient stock aborts without consuming the cart", func(t *testing.T) {
		f := newCheckoutFixture(t, 2)

		_, err := f.carts.AddItem(ctx, userIdent, "p1", 5, nil)
		require.NoError(t, err)

		_, err = f.orders.Checkout(ctx, "user-1", CheckoutInput{Email: "buyer@example.com"})
		assert.ErrorIs(t, err, productdom.ErrOutOfStock)

		_, items, err := f.carts.Get(ctx, userIdent)
		require.NoError(t, err)
		require.Len(t, items, 1, "cart kept on a failed checkout")
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("mail failure does not fail the checkout", func(t *testing.T) {
		f := newCheckoutFixture(t, 10)
		f.mailer.err = errors.New("sendgrid down")

		_, err := f.carts.AddItem(ctx, userIdent, "p1", 1, nil)
		require.NoError(t, err)

		o, err := f.orders.Checkout(ctx, "user-1", CheckoutInput{Email: "buyer@example.com"})
		require.NoError(t, err)

		stored, err := f.orderRe.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, stored.OrderNumber)
	})
}

func TestOrderAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("users cannot read another user's order", func(t *testing.T) {
		f := newCheckoutFixture(t, 10)

		_, err := f.carts.AddItem(ctx, iddom.ForUser("user-1"), "p1", 1, nil)
		require.NoError(t, err)
		o, err := f.orders.Checkout(ctx, "user-1", CheckoutInput{Email: "buyer@example.com"})
		require.NoError(t, err)

		_, err = f.orders.GetForUser(ctx, "user-2", o.ID)
		assert.ErrorIs(t, err, ErrOrderForbidden)

		got, err := f.orders.GetForUser(ctx, "user-1", o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
	})
}

func TestAdminSetStatus(t *testing.T) {
	ctx := context.Background()

	newOrder := func(t *testing.T) (*checkoutFixture, *orderdom.Order) {
		f := newCheckoutFixture(t, 10)
		_, err := f.carts.AddItem(ctx, iddom.ForUser("user-1"), "p1", 1, nil)
		require.NoError(t, err)
		o, err := f.orders.Checkout(ctx, "user-1", CheckoutInput{Email: "buyer@example.com"})
		require.NoError(t, err)
		return f, o
	}

	t.Run("legal transition", func(t *testing.T) {
		f, o := newOrder(t)
		got, err := f.orders.AdminSetStatus(ctx, o.ID, orderdom.StatusPaid)
		require.NoError(t, err)
		assert.Equal(t, orderdom.StatusPaid, got.Status)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		f, o := newOrder(t)
		_, err := f.orders.AdminSetStatus(ctx, o.ID, orderdom.StatusDelivered)
		assert.ErrorIs(t, err, orderdom.ErrInvalidTransition)
	})

	t.Run("cancel after shipping rejected", func(t *testing.T) {
		f, o := newOrder(t)
		_, err := f.orders.AdminSetStatus(ctx, o.ID, orderdom.StatusPaid)
		require.NoError(t, err)
		_, err = f.orders.AdminSetStatus(ctx, o.ID, orderdom.StatusShipped)
		require.NoError(t, err)

		_, err = f.orders.AdminSetStatus(ctx, o.ID, orderdom.StatusCancelled)
		assert.ErrorIs(t, err, orderdom.ErrInvalidTransition)
	})
}
