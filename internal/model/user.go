package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Passwords are stored as bcrypt hashes only.  Organisation
// memberships live in the `user_orgs` join table and are loaded into an
// Actor when a session is issued.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsAdmin      – whether the user is a portal administrator.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsAdmin      bool      // users.is_admin
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Actor is the acting identity attached to every mutation request.  It
// is built from the JWT claims by the auth middleware and treated as
// fully trusted input by the booking subsystem.
type Actor struct {
	UserID  uint64   // authenticated user ID (JWT "sub")
	IsAdmin bool     // administrator flag (JWT "adm")
	OrgIDs  []uint64 // organisations the user belongs to (JWT "orgs")
}

// HasOrgPerms reports whether the actor may act on behalf of the given
// organisation: administrators always may, everyone else must be a
// member of the organisation.
func (a Actor) HasOrgPerms(orgID uint64) bool {
	if a.IsAdmin {
		return true
	}
	for _, id := range a.OrgIDs {
		if id == orgID {
			return true
		}
	}
	return false
}
