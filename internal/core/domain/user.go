package domain

import "time"

// UserType enumerates the roles the backend assigns to accounts.
type UserType string

const (
	UserTypeUser        UserType = "user"
	UserTypePoster      UserType = "poster"
	UserTypeAdminAgency UserType = "admin/agency"
	UserTypeClient      UserType = "client"
	UserTypeTeamLeader  UserType = "team_leader"
	UserTypeSuperAdmin  UserType = "super_admin"
)

// Label returns a human-readable name for the user type.
func (t UserType) Label() string {
	switch t {
	case UserTypeUser:
		return "User"
	case UserTypePoster:
		return "Poster"
	case UserTypeAdminAgency:
		return "Admin/Agency"
	case UserTypeClient:
		return "Client"
	case UserTypeTeamLeader:
		return "Team Leader"
	case UserTypeSuperAdmin:
		return "Super Admin"
	default:
		return "Unknown"
	}
}

// User is the read-only projection of a backend account. The gateway fetches
// it per request and never mutates it.
type User struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	UserType        UserType  `json:"user_type"`
	PasswordHash    string    `json:"-"`
	ChangedPassword bool      `json:"changed_password"`
	TierLevel       int       `json:"tier_level"` // legacy field, still sent by the backend
	CreatedBy       int64     `json:"created_by"`
	ReferralCodeID  *int64    `json:"referral_code_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
