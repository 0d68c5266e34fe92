package model

import (
	"fmt"
	"time"
)

// Role is the permission level of a user account.  It is stored as a
// plain integer in the `users` table and embedded in access tokens as
// the `status` claim.  A lower value means a higher privilege.
type Role int

// The three canonical roles.  Superadmin accounts are only ever created
// through the bootstrap command, admin accounts through the superadmin
// registration endpoint, and mobile accounts through self registration.
const (
	RoleSuperadmin Role = 0
	RoleAdmin      Role = 1
	RoleMobile     Role = 2
)

// roleNames maps the canonical role ordinals to their display names.
// The table is fixed at compile time; there is no runtime registration
// of new roles.
var roleNames = map[Role]string{
	RoleSuperadmin: "superadmin",
	RoleAdmin:      "admin",
	RoleMobile:     "mobile",
}

// Name returns the display name of the role.  Ordinals outside of the
// canonical set render as "custom-<id>" so that rows written by a newer
// schema still produce something readable.
func (r Role) Name() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("custom-%d", int(r))
}

// User represents an account record as stored in the `users` table.
// The username doubles as an e-mail address for admin-class accounts
// and as an opaque device token for mobile accounts; it is unique
// either way.  Password always holds a bcrypt hash once the record has
// been persisted.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Username  – unique username (e-mail or device token).
//  FirstName – optional first name; nil for mobile accounts.
//  LastName  – optional last name; nil for mobile accounts.
//  Password  – bcrypt hashed password.
//  Role      – permission level of the account.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
//  DeletedAt – soft-delete timestamp (nil while the account is active).
type User struct {
	ID        uint64     // users.id
	Username  string     // users.username
	FirstName *string    // users.first_name (nullable)
	LastName  *string    // users.last_name (nullable)
	Password  string     // users.password
	Role      Role       // users.role
	CreatedAt time.Time  // users.created_at
	UpdatedAt time.Time  // users.updated_at
	DeletedAt *time.Time // users.deleted_at (nullable)
}

// PublicUser is the projection of a User that is safe to return to
// clients.  The password hash and the lifecycle timestamps are never
// part of it.  The role is exposed as its raw ordinal under the
// `permissionLevel` key, matching what mobile clients already parse.
type PublicUser struct {
	ID              uint64  `json:"id"`
	Username        string  `json:"username"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	PermissionLevel int     `json:"permissionLevel"`
}

// Public builds the client-facing projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PermissionLevel: int(u.Role),
	}
}
