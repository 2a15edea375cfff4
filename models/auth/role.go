package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles. The zero value is not a valid role.
type Role int

const (
	RoleTeacher Role = iota + 1
	RoleCentralOffice
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleTeacher, RoleCentralOffice}
}

// ParseRole accepts the wire names "teacher" and "central_office".
func ParseRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case "teacher":
		return RoleTeacher, nil
	case "central_office":
		return RoleCentralOffice, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleTeacher:
		return "teacher"
	case RoleCentralOffice:
		return "central_office"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleTeacher, RoleCentralOffice:
		return true
	default:
		return false
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
