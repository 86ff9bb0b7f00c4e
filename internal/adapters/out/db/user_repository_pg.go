// internal/adapters/out/db/user_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "voltmart/internal/adapters/out/db/common"
	userdom "voltmart/internal/domain/user"
)

type UserRepositoryPG struct {
	DB *sql.DB
}

func NewUserRepositoryPG(db *sql.DB) *UserRepositoryPG {
	return &UserRepositoryPG{DB: db}
}

func (r *UserRepositoryPG) GetByFirebaseUID(ctx context.Context, uid string) (*userdom.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("user_repository_pg: uid is empty")
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT id, firebase_uid, email, display_name, role, created_at, updated_at
FROM users
WHERE firebase_uid = $1`

	u, err := scanUser(run.QueryRowContext(ctx, q, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*userdom.User, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT id, firebase_uid, email, display_name, role, created_at, updated_at
FROM users
WHERE id = $1`

	u, err := scanUser(run.QueryRowContext(ctx, q, strings.TrimSpace(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userdom.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepositoryPG) Upsert(ctx context.Context, u *userdom.User) (*userdom.User, error) {
	if u == nil {
		return nil, errors.New("user_repository_pg: user is nil")
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	// Role is intentionally NOT refreshed on conflict: admin grants are made
	// directly in the database and must survive sign-ins.
	const q = `
INSERT INTO users (id, firebase_uid, email, display_name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (firebase_uid)
DO UPDATE SET
  email        = EXCLUDED.email,
  display_name = EXCLUDED.display_name,
  updated_at   = EXCLUDED.updated_at
RETURNING id, firebase_uid, email, display_name, role, created_at, updated_at`

	stored, err := scanUser(run.QueryRowContext(ctx, q,
		u.ID, u.FirebaseUID, u.Email, u.DisplayName, string(u.Role),
		u.CreatedAt, u.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func scanUser(s dbcommon.RowScanner) (*userdom.User, error) {
	var u userdom.User
	var role string

	if err := s.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.DisplayName, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = userdom.Role(role)
	return &u, nil
}
