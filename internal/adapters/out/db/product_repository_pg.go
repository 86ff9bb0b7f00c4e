// internal/adapters/out/db/product_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	dbcommon "voltmart/internal/adapters/out/db/common"
	productdom "voltmart/internal/domain/product"
)

type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

const productColumns = `
  id, sku, name, brand, category, description,
  price_cents, stock, attributes, image_url, active,
  created_at, updated_at`

// ========================
// Repository impl
// ========================

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	q := `SELECT` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(run.QueryRowContext(ctx, q, strings.TrimSpace(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, productdom.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepositoryPG) List(ctx context.Context, filter productdom.Filter, sort productdom.Sort, page productdom.Page) (productdom.PageResult, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	where, args := buildProductWhere(filter)
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	orderBy := dbcommon.BuildOrderBy(sort.Column, map[string]string{
		"name":    "name",
		"price":   "price_cents",
		"created": "created_at",
	}, sort.Order, "created_at DESC, id DESC")

	pageNum, perPage, offset := dbcommon.NormalizePage(page.Number, page.PerPage, 24, 100)

	// Count
	var total int
	if err := run.QueryRowContext(ctx, "SELECT COUNT(*) FROM products "+whereSQL, args...).Scan(&total); err != nil {
		return productdom.PageResult{}, err
	}

	// Data
	q := fmt.Sprintf(`SELECT%s FROM products %s %s LIMIT $%d OFFSET $%d`,
		productColumns, whereSQL, orderBy, len(args)+1, len(args)+2)
	args = append(args, perPage, offset)

	rows, err := run.QueryContext(ctx, q, args...)
	if err != nil {
		return productdom.PageResult{}, err
	}
	defer rows.Close()

	items := make([]productdom.Product, 0, perPage)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return productdom.PageResult{}, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return productdom.PageResult{}, err
	}

	return productdom.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: dbcommon.ComputeTotalPages(total, perPage),
		Page:       pageNum,
		PerPage:    perPage,
	}, nil
}

func (r *ProductRepositoryPG) Create(ctx context.Context, p *productdom.Product) error {
	if p == nil {
		return errors.New("product_repository_pg: product is nil")
	}

	attrsJSON, err := json.Marshal(nonNilAttrs(p.Attributes))
	if err != nil {
		return err
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO products
  (id, sku, name, brand, category, description, price_cents, stock, attributes, image_url, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = run.ExecContext(ctx, q,
		p.ID, p.SKU, p.Name, p.Brand, p.Category, p.Description,
		p.PriceCents, p.Stock, attrsJSON, p.ImageURL, p.Active,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return productdom.ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (r *ProductRepositoryPG) Update(ctx context.Context, id string, patch productdom.Patch) (*productdom.Product, error) {
	set := []string{"updated_at = now()"}
	args := []any{strings.TrimSpace(id)}

	appendSet := func(expr string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf(expr, len(args)))
	}

	if patch.Name != nil {
		appendSet("name = $%d", strings.TrimSpace(*patch.Name))
	}
	if patch.Brand != nil {
		appendSet("brand = $%d", strings.TrimSpace(*patch.Brand))
	}
	if patch.Category != nil {
		appendSet("category = $%d", strings.TrimSpace(*patch.Category))
	}
	if patch.Description != nil {
		appendSet("description = $%d", *patch.Description)
	}
	if patch.PriceCents != nil {
		appendSet("price_cents = $%d", *patch.PriceCents)
	}
	if patch.Stock != nil {
		appendSet("stock = $%d", *patch.Stock)
	}
	if patch.Attributes != nil {
		attrsJSON, err := json.Marshal(nonNilAttrs(*patch.Attributes))
		if err != nil {
			return nil, err
		}
		appendSet("attributes = $%d", attrsJSON)
	}
	if patch.ImageURL != nil {
		appendSet("image_url = $%d", strings.TrimSpace(*patch.ImageURL))
	}
	if patch.Active != nil {
		appendSet("active = $%d", *patch.Active)
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	q := fmt.Sprintf(`UPDATE products SET %s WHERE id = $1 RETURNING%s`,
		strings.Join(set, ", "), productColumns)

	p, err := scanProduct(run.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, productdom.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepositoryPG) Delete(ctx context.Context, id string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	res, err := run.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return productdom.ErrNotFound
	}
	return nil
}

func (r *ProductRepositoryPG) DecrementStock(ctx context.Context, id string, qty int) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2`

	res, err := run.ExecContext(ctx, q, strings.TrimSpace(id), qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is missing or the stock guard failed; disambiguate.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return productdom.ErrOutOfStock
	}
	return nil
}

// ========================
// helpers
// ========================

func buildProductWhere(f productdom.Filter) ([]string, []any) {
	var where []string
	var args []any

	if v := strings.TrimSpace(f.Brand); v != "" {
		dbcommon.AppendCond(&where, &args, "brand = $%d", v)
	}
	if v := strings.TrimSpace(f.Category); v != "" {
		dbcommon.AppendCond(&where, &args, "category = $%d", v)
	}
	if f.ActiveOnly {
		where = append(where, "active = TRUE")
	}
	if f.MinPrice != nil {
		dbcommon.AppendCond(&where, &args, "price_cents >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		dbcommon.AppendCond(&where, &args, "price_cents <= $%d", *f.MaxPrice)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		dbcommon.AppendCond(&where, &args, "name ILIKE '%%' || $%d || '%%'", v)
	}
	return where, args
}

func scanProduct(s dbcommon.RowScanner) (*productdom.Product, error) {
	var p productdom.Product
	var attrsJSON []byte

	if err := s.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Brand, &p.Category, &p.Description,
		&p.PriceCents, &p.Stock, &attrsJSON, &p.ImageURL, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &p.Attributes); err != nil {
			return nil, fmt.Errorf("product_repository_pg: decode attributes: %w", err)
		}
	}
	return &p, nil
}

func nonNilAttrs(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
