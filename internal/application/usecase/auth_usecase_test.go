// internal/application/usecase/auth_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iddom "voltmart/internal/domain/identity"
	userdom "voltmart/internal/domain/user"
)

func newAuthFixture(t *testing.T) (*AuthUsecase, *CartUsecase, *fakeUserRepo, *fakeCartRepo) {
	t.Helper()
	users := newFakeUserRepo()
	cartRe := newFakeCartRepo()
	carts := NewCartUsecaseWithClock(cartRe, newFakeProductRepo(laptop("p1", 129900)), newFixedClock(), seqIDs())
	auth := NewAuthUsecaseWithClock(users, carts, newFixedClock(), seqIDs())
	return auth, carts, users, cartRe
}

func TestResolveUser(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions on first sight", func(t *testing.T) {
		auth, _, _, _ := newAuthFixture(t)

		u, err := auth.ResolveUser(ctx, "fb-1", "a@example.com", "Ada")
		require.NoError(t, err)
		assert.Equal(t, userdom.RoleCustomer, u.Role)
		assert.Equal(t, "a@example.com", u.Email)

		again, err := auth.ResolveUser(ctx, "fb-1", "a@example.com", "Ada")
		require.NoError(t, err)
		assert.Equal(t, u.ID, again.ID)
	})

	t.Run("empty uid rejected", func(t *testing.T) {
		auth, _, _, _ := newAuthFixture(t)
		_, err := auth.ResolveUser(ctx, " ", "", "")
		assert.ErrorIs(t, err, ErrAuthInvalidArgument)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("merges the guest cart and reports it", func(t *testing.T) {
		auth, carts, _, _ := newAuthFixture(t)

		_, err := carts.AddItem(ctx, iddom.ForGuest("sess-1"), "p1", 2, nil)
		require.NoError(t, err)

		u, merged, err := auth.SignIn(ctx, "fb-1", "a@example.com", "Ada", "sess-1")
		require.NoError(t, err)
		assert.True(t, merged)

		_, items, err := carts.Get(ctx, iddom.ForUser(u.ID))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("no guest session skips the merge", func(t *testing.T) {
		auth, _, _, _ := newAuthFixture(t)

		_, merged, err := auth.SignIn(ctx, "fb-1", "a@example.com", "Ada", "")
		require.NoError(t, err)
		assert.False(t, merged)
	})

	t.Run("merge failure does not fail the sign-in", func(t *testing.T) {
		auth, carts, _, cartRe := newAuthFixture(t)

		_, err := carts.AddItem(ctx, iddom.ForGuest("sess-1"), "p1", 2, nil)
		require.NoError(t, err)
		// the provisioned user gets the fixture's first generated id
		_, err = carts.AddItem(ctx, iddom.ForUser("id-1"), "p1", 1, nil)
		require.NoError(t, err)
		cartRe.failDelete = assert.AnError

		u, merged, err := auth.SignIn(ctx, "fb-1", "a@example.com", "Ada", "sess-1")
		require.NoError(t, err)
		assert.NotNil(t, u)
		assert.False(t, merged, "caller must keep the guest cookie for a retry")
	})
}
