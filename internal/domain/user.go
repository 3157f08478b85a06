package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleOwner UserRole = "owner"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleOwner || r == RoleAdmin
}

// IsStaff reports whether the role manages venues (owner or admin).
func (r UserRole) IsStaff() bool {
	return r == RoleOwner || r == RoleAdmin
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Requester is the authenticated identity supplied with every core operation.
type Requester struct {
	ID   int64
	Role UserRole
}
