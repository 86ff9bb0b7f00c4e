// internal/domain/settings/entity.go
package settings

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("settings: business settings are not configured")
	ErrInvalid       = errors.New("settings: invalid")
)

// Business is the admin-edited storefront settings document.
type Business struct {
	StoreName    string    `json:"storeName"`
	SupportEmail string    `json:"supportEmail"`
	Currency     string    `json:"currency"`
	Announcement string    `json:"announcement,omitempty"`
	Maintenance  bool      `json:"maintenanceMode"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Defaults returns the safe fallback used when the document is missing or
// unreadable: storefront open, no announcement.
func Defaults() Business {
	return Business{
		StoreName: "Voltmart",
		Currency:  "USD",
	}
}

func (b *Business) Validate() error {
	if b == nil {
		return ErrInvalid
	}
	if strings.TrimSpace(b.StoreName) == "" {
		return ErrInvalid
	}
	if strings.TrimSpace(b.Currency) == "" {
		return ErrInvalid
	}
	return nil
}
