package user

import "time"

type Role string

const (
	RoleHR         Role = "hr"         // HR admin - may act on any request
	RoleSupervisor Role = "supervisor" // Appears in escalation chains
	RoleEmployee   Role = "employee"   // Regular employee
)

// SystemActorID marks actions performed by the engine itself (generated
// claims, recalibrations, expiry). It is never a database row and must
// never be permission-checked.
const SystemActorID = "system"

type User struct {
	ID             string
	OrganizationID string
	Email          string
	Name           string
	PasswordHash   *string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SystemActor returns the sentinel actor used for system-performed
// transitions and history rows.
func SystemActor() User {
	return User{
		ID:   SystemActorID,
		Name: "System",
		Role: RoleHR,
	}
}

// IsSystem checks if this is the engine's sentinel actor
func (u *User) IsSystem() bool {
	return u.ID == SystemActorID
}

// IsHR checks if user holds the HR administrative permission
func (u *User) IsHR() bool {
	return u.Role == RoleHR
}
