// internal/adapters/out/db/wishlist_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "voltmart/internal/adapters/out/db/common"
	wishdom "voltmart/internal/domain/wishlist"
)

type WishlistRepositoryPG struct {
	DB *sql.DB
}

func NewWishlistRepositoryPG(db *sql.DB) *WishlistRepositoryPG {
	return &WishlistRepositoryPG{DB: db}
}

func (r *WishlistRepositoryPG) Add(ctx context.Context, it *wishdom.Item) error {
	if it == nil {
		return errors.New("wishlist_repository_pg: item is nil")
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	// Re-adding an existing pair is a no-op (idempotent add).
	const q = `
INSERT INTO wishlist_items (id, user_id, product_id, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, product_id) DO NOTHING`

	_, err := run.ExecContext(ctx, q, it.ID, it.UserID, it.ProductID, it.CreatedAt)
	return err
}

func (r *WishlistRepositoryPG) Remove(ctx context.Context, userID, productID string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		strings.TrimSpace(userID), strings.TrimSpace(productID))
	return err
}

func (r *WishlistRepositoryPG) ListByUser(ctx context.Context, userID string) ([]wishdom.Entry, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT w.id, w.user_id, w.product_id, w.created_at,
       COALESCE(p.name, ''), COALESCE(p.price_cents, 0), COALESCE(p.image_url, ''),
       COALESCE(p.stock, 0) > 0
FROM wishlist_items w
LEFT JOIN products p ON p.id = w.product_id
WHERE w.user_id = $1
ORDER BY w.created_at DESC, w.id`

	rows, err := run.QueryContext(ctx, q, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]wishdom.Entry, 0, 8)
	for rows.Next() {
		var e wishdom.Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt,
			&e.ProductName, &e.PriceCents, &e.ImageURL, &e.InStock,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
