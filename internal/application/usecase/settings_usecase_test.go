// internal/application/usecase/settings_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settingsdom "voltmart/internal/domain/settings"
)

type fakeSettingsRepo struct {
	value *settingsdom.Business
	err   error

	gets int
	puts int
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*settingsdom.Business, error) {
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	if r.value == nil {
		return nil, settingsdom.ErrNotConfigured
	}
	cp := *r.value
	return &cp, nil
}

func (r *fakeSettingsRepo) Put(ctx context.Context, b *settingsdom.Business) error {
	r.puts++
	if r.err != nil {
		return r.err
	}
	cp := *b
	r.value = &cp
	return nil
}

func TestSettingsGet(t *testing.T) {
	ctx := context.Background()

	t.Run("serves cached value within the ttl", func(t *testing.T) {
		repo := &fakeSettingsRepo{value: &settingsdom.Business{StoreName: "Voltmart", Currency: "USD", Maintenance: true}}
		clock := newFixedClock()
		uc := NewSettingsUsecaseWithClock(repo, clock, 5*time.Minute)

		assert.True(t, uc.Get(ctx).Maintenance)
		assert.True(t, uc.Get(ctx).Maintenance)
		assert.Equal(t, 1, repo.gets)
	})

	t.Run("refreshes after the ttl elapses", func(t *testing.T) {
		repo := &fakeSettingsRepo{value: &settingsdom.Business{StoreName: "Voltmart", Currency: "USD"}}
		clock := newFixedClock()
		uc := NewSettingsUsecaseWithClock(repo, clock, 5*time.Minute)

		assert.False(t, uc.MaintenanceOn(ctx))

		repo.value.Maintenance = true
		clock.Advance(4 * time.Minute)
		assert.False(t, uc.MaintenanceOn(ctx), "stale flag still served inside the ttl")

		clock.Advance(2 * time.Minute)
		assert.True(t, uc.MaintenanceOn(ctx))
		assert.Equal(t, 2, repo.gets)
	})

	t.Run("missing document yields defaults", func(t *testing.T) {
		repo := &fakeSettingsRepo{}
		uc := NewSettingsUsecaseWithClock(repo, newFixedClock(), 5*time.Minute)

		got := uc.Get(ctx)
		assert.Equal(t, settingsdom.Defaults(), got)
		assert.False(t, got.Maintenance)
	})

	t.Run("fetch failure serves the last-known snapshot", func(t *testing.T) {
		repo := &fakeSettingsRepo{value: &settingsdom.Business{StoreName: "Voltmart", Currency: "USD", Maintenance: true}}
		clock := newFixedClock()
		uc := NewSettingsUsecaseWithClock(repo, clock, 5*time.Minute)

		require.True(t, uc.MaintenanceOn(ctx))

		repo.err = errors.New("firestore unavailable")
		clock.Advance(6 * time.Minute)
		assert.True(t, uc.MaintenanceOn(ctx), "stale snapshot kept on failure")
	})

	t.Run("fetch failure without a snapshot serves defaults", func(t *testing.T) {
		repo := &fakeSettingsRepo{err: errors.New("firestore unavailable")}
		uc := NewSettingsUsecaseWithClock(repo, newFixedClock(), 5*time.Minute)

		assert.Equal(t, settingsdom.Defaults(), uc.Get(ctx))
	})
}

func TestSettingsUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and refreshes the cache immediately", func(t *testing.T) {
		repo := &fakeSettingsRepo{value: &settingsdom.Business{StoreName: "Voltmart", Currency: "USD"}}
		clock := newFixedClock()
		uc := NewSettingsUsecaseWithClock(repo, clock, 5*time.Minute)

		require.False(t, uc.MaintenanceOn(ctx))

		_, err := uc.Update(ctx, settingsdom.Business{StoreName: "Voltmart", Currency: "USD", Maintenance: true})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.puts)

		// no ttl wait needed
		assert.True(t, uc.MaintenanceOn(ctx))
	})

	t.Run("rejects an invalid document", func(t *testing.T) {
		repo := &fakeSettingsRepo{}
		uc := NewSettingsUsecaseWithClock(repo, newFixedClock(), 5*time.Minute)

		_, err := uc.Update(ctx, settingsdom.Business{StoreName: "  "})
		assert.Error(t, err)
		assert.Zero(t, repo.puts)
	})
}
