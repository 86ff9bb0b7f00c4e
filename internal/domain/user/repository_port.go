// internal/domain/user/repository_port.go
package user

import "context"

type Repository interface {
	// GetByFirebaseUID returns (nil, nil) when no row exists.
	GetByFirebaseUID(ctx context.Context, uid string) (*User, error)

	// GetByID returns ErrNotFound when no row exists.
	GetByID(ctx context.Context, id string) (*User, error)

	// Upsert creates the row keyed by FirebaseUID, or refreshes
	// email/display name on an existing one. Returns the stored row.
	Upsert(ctx context.Context, u *User) (*User, error)
}
