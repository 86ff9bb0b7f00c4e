// internal/application/usecase/settings_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	settingsdom "voltmart/internal/domain/settings"
)

var (
	ErrSettingsInvalidArgument = errors.New("settings_usecase: invalid argument")
)

// settingsCacheTTL is how long a fetched business-settings snapshot is
// served before a lazy refresh.
const settingsCacheTTL = 5 * time.Minute

// settingsSnapshot is the explicit cache cell: value plus fetch time,
// guarded by the usecase mutex.
type settingsSnapshot struct {
	value     settingsdom.Business
	fetchedAt time.Time
}

// SettingsUsecase serves the business settings document through a
// process-wide, stale-tolerant cache. A fetch failure keeps the last-known
// snapshot; with no snapshot at all the safe defaults apply (storefront
// open, maintenance off).
type SettingsUsecase struct {
	repo  settingsdom.Repository
	clock Clock
	ttl   time.Duration

	mu   sync.Mutex
	snap *settingsSnapshot
}

func NewSettingsUsecase(repo settingsdom.Repository) *SettingsUsecase {
	return &SettingsUsecase{
		repo:  repo,
		clock: systemClock{},
		ttl:   settingsCacheTTL,
	}
}

func NewSettingsUsecaseWithClock(repo settingsdom.Repository, clock Clock, ttl time.Duration) *SettingsUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if ttl <= 0 {
		ttl = settingsCacheTTL
	}
	return &SettingsUsecase{repo: repo, clock: clock, ttl: ttl}
}

// Get returns the cached business settings, refreshing lazily after the
// TTL elapses.
func (uc *SettingsUsecase) Get(ctx context.Context) settingsdom.Business {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.clock.Now()
	if uc.snap != nil && now.Sub(uc.snap.fetchedAt) < uc.ttl {
		return uc.snap.value
	}

	b, err := uc.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsdom.ErrNotConfigured) {
			// Missing document is a normal state for a fresh deployment.
			uc.snap = &settingsSnapshot{value: settingsdom.Defaults(), fetchedAt: now}
			return uc.snap.value
		}

		log.Printf("[settings_uc] WARN: settings fetch failed, serving last-known: %v", err)
		if uc.snap != nil {
			// stale-tolerant: keep serving the old value, retry after TTL
			uc.snap.fetchedAt = now
			return uc.snap.value
		}
		return settingsdom.Defaults()
	}

	uc.snap = &settingsSnapshot{value: *b, fetchedAt: now}
	return uc.snap.value
}

// MaintenanceOn reports the cached maintenance flag.
func (uc *SettingsUsecase) MaintenanceOn(ctx context.Context) bool {
	return uc.Get(ctx).Maintenance
}

// Update overwrites the settings document and refreshes the cache
// immediately so admins see their change without waiting out the TTL.
func (uc *SettingsUsecase) Update(ctx context.Context, b settingsdom.Business) (settingsdom.Business, error) {
	b.UpdatedAt = uc.clock.Now()
	if err := b.Validate(); err != nil {
		return settingsdom.Business{}, err
	}

	if err := uc.repo.Put(ctx, &b); err != nil {
		return settingsdom.Business{}, err
	}

	uc.mu.Lock()
	uc.snap = &settingsSnapshot{value: b, fetchedAt: uc.clock.Now()}
	uc.mu.Unlock()

	return b, nil
}
