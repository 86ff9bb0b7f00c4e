// internal/domain/settings/repository_port.go
package settings

import "context"

// Repository is the persistence port for the business settings document.
//
// Storage (Firestore):
// - collection: settings
// - docId: business
type Repository interface {
	// Get returns ErrNotConfigured when the document does not exist.
	Get(ctx context.Context) (*Business, error)

	// Put overwrites the whole document.
	Put(ctx context.Context, b *Business) error
}
