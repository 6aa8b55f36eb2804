package entities

import "time"

type Authority string

const (
	AuthorityOrdinary       Authority = "ordinary"
	AuthorityAdministrative Authority = "administrative"
)

// Identity is the caller resolved from the session token. Usecases receive it
// as an explicit argument.
type Identity struct {
	UserID    string
	Authority Authority
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Authority == AuthorityAdministrative
}

// CanAccess reports whether the caller owns the resource or is an administrator.
func (i Identity) CanAccess(ownerID string) bool {
	if !i.Authenticated() {
		return false
	}
	return i.IsAdmin() || i.UserID == ownerID
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Authority    Authority `json:"authority"`
	CreatedAt    time.Time `json:"created_at"`
}
