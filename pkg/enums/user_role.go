package enums

import "fmt"

// UserRole scopes what a signed-in actor can do.
type UserRole string

const (
	UserRoleOwner   UserRole = "OWNER"
	UserRoleGuest   UserRole = "GUEST"
	UserRoleManager UserRole = "MANAGER"
	UserRoleAdmin   UserRole = "ADMIN"
)

var validUserRoles = []UserRole{
	UserRoleOwner,
	UserRoleGuest,
	UserRoleManager,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
