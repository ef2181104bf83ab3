// Package domain contains entities without behavior beyond their own invariants.
package domain

import "errors"

const MaxUsernameLen = 36

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

type UserID string

// User is the authenticated identity a connection carries. The identity
// provider supplies it at connect time; it is trusted for the lifetime of
// the connection and never re-validated.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewUser avoids ad-hoc struct literals in adapters and keeps the
// username bounds in one place.
func NewUser(id UserID, username string) (*User, error) {
	if len(username) == 0 {
		return nil, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &User{ID: id, Username: username}, nil
}
