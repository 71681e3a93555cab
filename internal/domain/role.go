package domain

import "fmt"

// Role is the closed set of account roles. Access checks go through the
// capability methods rather than string comparison.
type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a role supplied by a form or stored record.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// CanManageEvents reports whether the role may create events.
func (r Role) CanManageEvents() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
