package workflow

import "fmt"

// Role identifies what a user is allowed to do across the workflow.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleArtist    Role = "ARTIST"
	RoleStaff     Role = "STAFF"
	RoleOrganizer Role = "ORGANIZER"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleArtist, RoleStaff, RoleOrganizer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts stored or request-supplied text into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// AccountStatus marks whether an account may act at all.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

// Valid reports whether the status is a known variant.
func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountInactive
}

// Principal is the authenticated actor behind a request. It is supplied by
// the transport layer after token verification; the core trusts it as-is.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
}
