// internal/adapters/out/firestore/settings_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	settingsdom "voltmart/internal/domain/settings"
)

// SettingsRepositoryFS implements settings.Repository on Firestore.
//
// Document design:
// - collection: settings
// - docId: business
type SettingsRepositoryFS struct {
	Client *firestore.Client
}

func NewSettingsRepositoryFS(client *firestore.Client) *SettingsRepositoryFS {
	return &SettingsRepositoryFS{Client: client}
}

func (r *SettingsRepositoryFS) doc() *firestore.DocumentRef {
	return r.Client.Collection("settings").Doc("business")
}

type businessDoc struct {
	StoreName    string    `firestore:"storeName"`
	SupportEmail string    `firestore:"supportEmail"`
	Currency     string    `firestore:"currency"`
	Announcement string    `firestore:"announcement"`
	Maintenance  bool      `firestore:"maintenanceMode"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func (r *SettingsRepositoryFS) Get(ctx context.Context) (*settingsdom.Business, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("settings_repository_fs: firestore client is nil")
	}

	snap, err := r.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, settingsdom.ErrNotConfigured
		}
		return nil, err
	}

	var d businessDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}

	return &settingsdom.Business{
		StoreName:    d.StoreName,
		SupportEmail: d.SupportEmail,
		Currency:     d.Currency,
		Announcement: d.Announcement,
		Maintenance:  d.Maintenance,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (r *SettingsRepositoryFS) Put(ctx context.Context, b *settingsdom.Business) error {
	if r == nil || r.Client == nil {
		return errors.New("settings_repository_fs: firestore client is nil")
	}
	if b == nil {
		return errors.New("settings_repository_fs: business is nil")
	}

	// Overwrite full doc (simple & predictable).
	_, err := r.doc().Set(ctx, businessDoc{
		StoreName:    b.StoreName,
		SupportEmail: b.SupportEmail,
		Currency:     b.Currency,
		Announcement: b.Announcement,
		Maintenance:  b.Maintenance,
		UpdatedAt:    b.UpdatedAt,
	})
	return err
}
