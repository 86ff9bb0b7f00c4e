// internal/adapters/out/db/cart_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	dbcommon "voltmart/internal/adapters/out/db/common"
	cartdom "voltmart/internal/domain/cart"
)

type CartRepositoryPG struct {
	DB *sql.DB
}

func NewCartRepositoryPG(db *sql.DB) *CartRepositoryPG {
	return &CartRepositoryPG{DB: db}
}

// ========================
// Repository impl
// ========================

func (r *CartRepositoryPG) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	return r.getByOwner(ctx, "user_id", userID)
}

func (r *CartRepositoryPG) GetBySessionID(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	return r.getByOwner(ctx, "session_id", sessionID)
}

func (r *CartRepositoryPG) getByOwner(ctx context.Context, col, val string) (*cartdom.Cart, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, errors.New("cart_repository_pg: owner id is empty")
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	q := fmt.Sprintf(`
SELECT id, user_id, session_id, created_at, updated_at
FROM carts
WHERE %s = $1`, col)

	c, err := scanCart(run.QueryRowContext(ctx, q, val))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CartRepositoryPG) Create(ctx context.Context, c *cartdom.Cart) error {
	if c == nil {
		return errors.New("cart_repository_pg: cart is nil")
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO carts (id, user_id, session_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := run.ExecContext(ctx, q,
		c.ID,
		dbcommon.ToNullString(c.UserID),
		dbcommon.ToNullString(c.SessionID),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return cartdom.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *CartRepositoryPG) Delete(ctx context.Context, cartID string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, strings.TrimSpace(cartID))
	return err
}

func (r *CartRepositoryPG) ReassignToUser(ctx context.Context, cartID, userID string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
UPDATE carts
SET user_id = $2, session_id = NULL, updated_at = now()
WHERE id = $1`

	res, err := run.ExecContext(ctx, q, strings.TrimSpace(cartID), strings.TrimSpace(userID))
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return cartdom.ErrAlreadyExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return cartdom.ErrNotFound
	}
	return nil
}

func (r *CartRepositoryPG) UpsertItem(ctx context.Context, it *cartdom.Item) (*cartdom.Item, error) {
	if it == nil {
		return nil, errors.New("cart_repository_pg: item is nil")
	}

	attrsJSON, err := json.Marshal(cartdom.NormalizeAttributes(it.Attributes))
	if err != nil {
		return nil, err
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO cart_items
  (id, cart_id, product_id, quantity, price_cents, selected_attributes, attributes_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (cart_id, product_id, attributes_key)
DO UPDATE SET
  quantity   = cart_items.quantity + EXCLUDED.quantity,
  updated_at = EXCLUDED.updated_at
RETURNING id, cart_id, product_id, quantity, price_cents, selected_attributes, created_at, updated_at`

	stored, err := scanItem(run.QueryRowContext(ctx, q,
		it.ID,
		it.CartID,
		it.ProductID,
		it.Quantity,
		it.PriceCents,
		attrsJSON,
		it.Key(),
		it.CreatedAt,
		it.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *CartRepositoryPG) GetItem(ctx context.Context, itemID string) (*cartdom.Item, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT id, cart_id, product_id, quantity, price_cents, selected_attributes, created_at, updated_at
FROM cart_items
WHERE id = $1`

	it, err := scanItem(run.QueryRowContext(ctx, q, strings.TrimSpace(itemID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return it, nil
}

func (r *CartRepositoryPG) SetItemQuantity(ctx context.Context, itemID string, qty int) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
UPDATE cart_items
SET quantity = $2, updated_at = now()
WHERE id = $1`

	res, err := run.ExecContext(ctx, q, strings.TrimSpace(itemID), qty)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return cartdom.ErrNotFound
	}
	return nil
}

func (r *CartRepositoryPG) DeleteItem(ctx context.Context, itemID string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	// Removing an absent id is a no-op success (idempotent remove).
	_, err := run.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, strings.TrimSpace(itemID))
	return err
}

func (r *CartRepositoryPG) DeleteItems(ctx context.Context, cartID string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, strings.TrimSpace(cartID))
	return err
}

func (r *CartRepositoryPG) ListItems(ctx context.Context, cartID string) ([]cartdom.Item, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT id, cart_id, product_id, quantity, price_cents, selected_attributes, created_at, updated_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at, id`

	rows, err := run.QueryContext(ctx, q, strings.TrimSpace(cartID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]cartdom.Item, 0, 8)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartRepositoryPG) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbcommon.Transact(ctx, r.DB, fn)
}

// ========================
// scanners
// ========================

func scanCart(s dbcommon.RowScanner) (*cartdom.Cart, error) {
	var c cartdom.Cart
	var userID, sessionID sql.NullString

	if err := s.Scan(&c.ID, &userID, &sessionID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.UserID = dbcommon.FromNullString(userID)
	c.SessionID = dbcommon.FromNullString(sessionID)
	return &c, nil
}

func scanItem(s dbcommon.RowScanner) (*cartdom.Item, error) {
	var it cartdom.Item
	var attrsJSON []byte

	if err := s.Scan(
		&it.ID,
		&it.CartID,
		&it.ProductID,
		&it.Quantity,
		&it.PriceCents,
		&attrsJSON,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &it.Attributes); err != nil {
			return nil, fmt.Errorf("cart_repository_pg: decode attributes: %w", err)
		}
	}
	if it.Attributes == nil {
		it.Attributes = map[string]string{}
	}
	return &it, nil
}
