package user

import "time"

type Role string

const (
	RoleStaff Role = "staff" // Records own attendance, submits corrections
	RoleAdmin Role = "admin" // Reviews, approves and edits everyone's attendance
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor returns the identity used for authorization decisions.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// Actor is the already-authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
