package domain

import "time"

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleFranchisee UserRole = "FRANCHISEE"
)

type UserStatus string

const (
	UserStatusPending   UserStatus = "PENDING"
	UserStatusValidated UserStatus = "VALIDATED"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID          int32      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number"`
	Role        UserRole   `json:"role"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsFranchisee reports whether the user can be onboarded as a franchisee.
func (u *User) IsFranchisee() bool {
	return u.Role == UserRoleFranchisee
}
