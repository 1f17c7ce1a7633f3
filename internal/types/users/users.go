package users

import "time"

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
	RoleRoot      Role = "ROOT"
)

// roleOrder lists roles from least to most privileged.
var roleOrder = []Role{RoleUser, RoleModerator, RoleAdmin, RoleRoot}

// InheritedRoles returns role and every role below it.
func InheritedRoles(role Role) []Role {
	for i, r := range roleOrder {
		if r == role {
			out := make([]Role, i+1)
			copy(out, roleOrder[:i+1])
			return out
		}
	}
	return []Role{RoleUser}
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type BulkRegisterRequest struct {
	Usernames []string `json:"usernames" validate:"required,min=1,dive,email"`
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Enabled   bool      `json:"enabled"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// UserSummary is the id/username projection used by admin listings.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
