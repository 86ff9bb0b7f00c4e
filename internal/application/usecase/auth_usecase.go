// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	userdom "voltmart/internal/domain/user"
)

var (
	ErrAuthInvalidArgument = errors.New("auth_usecase: invalid argument")
)

// AuthUsecase provisions user rows from verified Firebase identities and
// orchestrates the guest-cart merge at sign-in.
type AuthUsecase struct {
	users userdom.Repository
	carts *CartUsecase
	clock Clock
	newID func() string
}

func NewAuthUsecase(users userdom.Repository, carts *CartUsecase) *AuthUsecase {
	return &AuthUsecase{
		users: users,
		carts: carts,
		clock: systemClock{},
		newID: uuid.NewString,
	}
}

func NewAuthUsecaseWithClock(users userdom.Repository, carts *CartUsecase, clock Clock, newID func() string) *AuthUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &AuthUsecase{users: users, carts: carts, clock: clock, newID: newID}
}

// ResolveUser maps a verified Firebase UID to the users row, provisioning
// it lazily on first sight.
func (uc *AuthUsecase) ResolveUser(ctx context.Context, firebaseUID, email, displayName string) (*userdom.User, error) {
	fuid := strings.TrimSpace(firebaseUID)
	if fuid == "" {
		return nil, ErrAuthInvalidArgument
	}

	existing, err := uc.users.GetByFirebaseUID(ctx, fuid)
	if err != nil {
		return nil, err
	}
	if existing != nil && strings.TrimSpace(email) == "" && strings.TrimSpace(displayName) == "" {
		return existing, nil
	}

	now := uc.clock.Now()
	u := &userdom.User{
		ID:          uc.newID(),
		FirebaseUID: fuid,
		Email:       strings.TrimSpace(email),
		DisplayName: strings.TrimSpace(displayName),
		Role:        userdom.RoleCustomer,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return uc.users.Upsert(ctx, u)
}

// SignIn provisions the user and merges the guest cart when a guest
// session accompanied the sign-in. merged reports whether the merge ran
// cleanly, so the caller knows it may clear the guest cookie; on a merge
// failure the cookie must be kept so the next sign-in retries.
func (uc *AuthUsecase) SignIn(ctx context.Context, firebaseUID, email, displayName, guestSessionID string) (u *userdom.User, merged bool, err error) {
	u, err = uc.ResolveUser(ctx, firebaseUID, email, displayName)
	if err != nil {
		return nil, false, err
	}

	sid := strings.TrimSpace(guestSessionID)
	if sid == "" || uc.carts == nil {
		return u, false, nil
	}

	if merr := uc.carts.Merge(ctx, sid, u.ID); merr != nil {
		// Sign-in itself succeeded; the cart merge can be retried on the
		// next request because the cookie stays.
		log.Printf("[auth_uc] WARN: guest cart merge failed userId=%s err=%v", u.ID, merr)
		return u, false, nil
	}
	return u, true, nil
}

func (uc *AuthUsecase) GetUser(ctx context.Context, id string) (*userdom.User, error) {
	uid := strings.TrimSpace(id)
	if uid == "" {
		return nil, ErrAuthInvalidArgument
	}
	return uc.users.GetByID(ctx, uid)
}
