// internal/adapters/out/db/common/sqlutil.go
package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// RowScanner abstracts the Scan() shared by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// IsUniqueViolation detects a PostgreSQL duplicate-key error (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// Runner is the interface shared by *sql.DB and *sql.Tx.
type Runner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TxKey carries a *sql.Tx through the context so repository calls made
// inside a transaction join it transparently.
type TxKey struct{}

func CtxWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, TxKey{}, tx)
}

func TxFromCtx(ctx context.Context) *sql.Tx {
	if v := ctx.Value(TxKey{}); v != nil {
		if tx, ok := v.(*sql.Tx); ok {
			return tx
		}
	}
	return nil
}

// GetRunner returns the ctx transaction when present, else the pool.
func GetRunner(ctx context.Context, db *sql.DB) Runner {
	if tx := TxFromCtx(ctx); tx != nil {
		return tx
	}
	return db
}

// Transact begins a transaction, stores it in the context and runs fn.
// A ctx that already carries a transaction is reused (no nesting).
func Transact(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if TxFromCtx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(CtxWithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// NormalizePage normalizes page number/size and returns limit/offset.
func NormalizePage(number, perPage, defaultPerPage, maxPerPage int) (page int, limit int, offset int) {
	page = number
	if page <= 0 {
		page = 1
	}
	limit = perPage
	if limit <= 0 {
		limit = defaultPerPage
	}
	if maxPerPage > 0 && limit > maxPerPage {
		limit = maxPerPage
	}
	offset = (page - 1) * limit
	return
}

// ComputeTotalPages computes the page count for a total/perPage pair.
func ComputeTotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// BuildOrderBy converts a domain sort spec into a safe ORDER BY clause.
// allowed is a domain-column -> SQL-column whitelist; fallback is the
// default (e.g. "created_at DESC").
func BuildOrderBy(column string, allowed map[string]string, order string, fallback string) string {
	if column == "" {
		if fallback == "" {
			return ""
		}
		return "ORDER BY " + fallback
	}
	sqlCol, ok := allowed[strings.ToLower(column)]
	if !ok || sqlCol == "" {
		if fallback == "" {
			return ""
		}
		return "ORDER BY " + fallback
	}
	dir := strings.ToUpper(order)
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", sqlCol, dir)
}

// AppendCond appends a WHERE condition whose $n placeholder index is
// derived from the current args length. exprFmt must contain one "%d".
func AppendCond(where *[]string, args *[]any, exprFmt string, val any) {
	*where = append(*where, fmt.Sprintf(exprFmt, len(*args)+1))
	*args = append(*args, val)
}

// ToNullString converts a trimmed string to sql.NullString (blank -> NULL).
func ToNullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// FromNullString unwraps sql.NullString to "" when invalid.
func FromNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
