// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("user: not found")
	ErrInvalid  = errors.New("user: invalid")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a storefront account keyed by the Firebase UID from the verified
// ID token. Rows are provisioned lazily on first authenticated request.
type User struct {
	ID          string    `json:"id"`
	FirebaseUID string    `json:"-"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (u *User) Validate() error {
	if u == nil {
		return ErrInvalid
	}
	if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.FirebaseUID) == "" {
		return ErrInvalid
	}
	if u.Role != RoleCustomer && u.Role != RoleAdmin {
		return ErrInvalid
	}
	return nil
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
