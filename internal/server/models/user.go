package models

import "time"

// Identity is an account of the identity store. PasswordHash is a bcrypt
// hash and never leaves the server.
type Identity struct {
	ID           string
	UserName     string
	PasswordHash []byte
	Roles        []string
	CreatedAt    time.Time
}

// HasRole reports whether role is among the identity's memberships.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
