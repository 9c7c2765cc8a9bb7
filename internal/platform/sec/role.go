// Copyright (c) 2026 TrustVoice. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage campaigns and issue receipts for their organization
	RoleOrganizer UserRole = "organizer"

	// Can donate and view their own donation history and receipts
	RoleDonor UserRole = "donor"

	// Default role for standard registered users
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleOrganizer:
		return 30
	case RoleDonor:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
