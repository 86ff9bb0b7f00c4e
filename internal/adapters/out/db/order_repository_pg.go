// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	dbcommon "voltmart/internal/adapters/out/db/common"
	orderdom "voltmart/internal/domain/order"
)

type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

// ========================
// Repository impl
// ========================

func (r *OrderRepositoryPG) Create(ctx context.Context, o *orderdom.Order) error {
	if o == nil {
		return errors.New("order_repository_pg: order is nil")
	}

	shippingJSON, err := json.Marshal(o.Shipping)
	if err != nil {
		return err
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO orders
  (id, order_number, user_id, status, subtotal_cents, shipping_cents, total_cents, email, shipping, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := run.ExecContext(ctx, q,
		o.ID, o.OrderNumber, o.UserID, string(o.Status),
		o.SubtotalCents, o.ShippingCents, o.TotalCents,
		o.Email, shippingJSON, o.CreatedAt, o.UpdatedAt,
	); err != nil {
		return err
	}

	const iq = `
INSERT INTO order_items (id, order_id, product_id, name, quantity, price_cents)
VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range o.Items {
		it := &o.Items[i]
		if _, err := run.ExecContext(ctx, iq,
			it.ID, o.ID, it.ProductID, it.Name, it.Quantity, it.PriceCents,
		); err != nil {
			return fmt.Errorf("order_repository_pg: insert item %d: %w", i, err)
		}
	}
	return nil
}

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT id, order_number, user_id, status, subtotal_cents, shipping_cents, total_cents, email, shipping, created_at, updated_at
FROM orders
WHERE id = $1`

	o, err := scanOrder(run.QueryRowContext(ctx, q, strings.TrimSpace(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderdom.ErrNotFound
		}
		return nil, err
	}

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepositoryPG) List(ctx context.Context, filter orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	var where []string
	var args []any
	if v := strings.TrimSpace(filter.UserID); v != "" {
		dbcommon.AppendCond(&where, &args, "user_id = $%d", v)
	}
	if filter.Status != "" {
		dbcommon.AppendCond(&where, &args, "status = $%d", string(filter.Status))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	pageNum, perPage, offset := dbcommon.NormalizePage(page.Number, page.PerPage, 20, 100)

	var total int
	if err := run.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders "+whereSQL, args...).Scan(&total); err != nil {
		return orderdom.PageResult{}, err
	}

	q := fmt.Sprintf(`
SELECT id, order_number, user_id, status, subtotal_cents, shipping_cents, total_cents, email, shipping, created_at, updated_at
FROM orders
%s
ORDER BY created_at DESC, id DESC
LIMIT $%d OFFSET $%d`, whereSQL, len(args)+1, len(args)+2)
	args = append(args, perPage, offset)

	rows, err := run.QueryContext(ctx, q, args...)
	if err != nil {
		return orderdom.PageResult{}, err
	}
	defer rows.Close()

	items := make([]orderdom.Order, 0, perPage)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return orderdom.PageResult{}, err
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return orderdom.PageResult{}, err
	}

	return orderdom.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: dbcommon.ComputeTotalPages(total, perPage),
		Page:       pageNum,
		PerPage:    perPage,
	}, nil
}

func (r *OrderRepositoryPG) UpdateStatus(ctx context.Context, id string, status orderdom.Status) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1`

	res, err := run.ExecContext(ctx, q, strings.TrimSpace(id), string(status))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return orderdom.ErrNotFound
	}
	return nil
}

// ========================
// helpers
// ========================

func (r *OrderRepositoryPG) listItems(ctx context.Context, orderID string) ([]orderdom.ItemSnapshot, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT id, order_id, product_id, name, quantity, price_cents
FROM order_items
WHERE order_id = $1
ORDER BY id`

	rows, err := run.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]orderdom.ItemSnapshot, 0, 8)
	for rows.Next() {
		var it orderdom.ItemSnapshot
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Quantity, &it.PriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(s dbcommon.RowScanner) (*orderdom.Order, error) {
	var o orderdom.Order
	var status string
	var shippingJSON []byte

	if err := s.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &status,
		&o.SubtotalCents, &o.ShippingCents, &o.TotalCents,
		&o.Email, &shippingJSON, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = orderdom.Status(status)

	if len(shippingJSON) > 0 {
		if err := json.Unmarshal(shippingJSON, &o.Shipping); err != nil {
			return nil, fmt.Errorf("order_repository_pg: decode shipping: %w", err)
		}
	}
	return &o, nil
}
