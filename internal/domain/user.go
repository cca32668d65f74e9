// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUsernameLen  = 24
	DefaultUsername = "Guest"
)

var ErrUsernameEmpty = errors.New("username empty")

type UserID string

type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID) *User {
	return &User{ID: id, Username: DefaultUsername}
}

// SetUsername trims and truncates the name; longer names are cut, not rejected.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameEmpty
	}
	u.Username = Truncate(username, MaxUsernameLen)
	return nil
}

// DisplayName returns name cut to MaxUsernameLen, or DefaultUsername when blank.
func DisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultUsername
	}
	return Truncate(name, MaxUsernameLen)
}
