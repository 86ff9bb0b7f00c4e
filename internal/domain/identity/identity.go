// internal/domain/identity/identity.go
package identity

import (
	"errors"
	"strings"
)

var (
	ErrInvalidIdentity = errors.New("identity: exactly one of userId / sessionId must be set")
)

// Identity is the resolved owner of a request: an authenticated user or an
// anonymous guest session. Exactly one field is populated; the authenticated
// identity wins when both could be resolved.
type Identity struct {
	UserID    string
	SessionID string
}

func ForUser(userID string) Identity {
	return Identity{UserID: strings.TrimSpace(userID)}
}

func ForGuest(sessionID string) Identity {
	return Identity{SessionID: strings.TrimSpace(sessionID)}
}

func (id Identity) IsUser() bool  { return strings.TrimSpace(id.UserID) != "" }
func (id Identity) IsGuest() bool { return !id.IsUser() && strings.TrimSpace(id.SessionID) != "" }

func (id Identity) Validate() error {
	u := strings.TrimSpace(id.UserID)
	s := strings.TrimSpace(id.SessionID)
	if (u == "") == (s == "") {
		return ErrInvalidIdentity
	}
	return nil
}
