package entity

import (
	"time"
)

// Role controls platform-level access.
type Role string

const (
	RoleUser       Role = "USER"
	RoleSuperadmin Role = "SUPERADMIN"
)

// User is the aggregate root for an account and its tenant identity.
// Passwords are stored as bcrypt hashes in Password. Subdomain is the
// unique DNS label the user's portfolio is served under; it never changes
// outside the superadmin rename flow. Accounts are soft-deactivated, not
// deleted, so historical portfolio links keep resolving to a 404 rather
// than being reclaimable.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	Subdomain string
	Role      Role
	IsActive  bool
	IsBanned  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSuperadmin reports whether the user has platform admin privileges.
func (u *User) IsSuperadmin() bool { return u.Role == RoleSuperadmin }

// CanServePortfolio reports whether this user's portfolio may be rendered.
func (u *User) CanServePortfolio() bool { return u.IsActive && !u.IsBanned }
