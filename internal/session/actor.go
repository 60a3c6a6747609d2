// Package session carries the authenticated caller explicitly into use cases
// so no data access depends on ambient state.
package session

type Actor struct {
	UserID     uint
	BusinessID uint
	Role       string
	TokenID    string
}

func (a Actor) UserRef() *uint {
	id := a.UserID
	return &id
}
