package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned by ParseRole for anything outside the enumeration.
var ErrUnknownRole = errors.New("unknown role")

// Role is the permission label carried by a credential and, after login, by
// the main surface. It only decides which controls are shown.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles lists every recognised role in display order.
var Roles = []Role{RoleAdmin, RoleUser}

// ParseRole accepts exactly "admin" or "user" (surrounding space ignored).
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleAdmin, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }
