package models

import (
	"time"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleUser          RoleType = "USER"
	RoleTeacher       RoleType = "TEACHER"
	RoleBusinessOwner RoleType = "BUSINESS_OWNER"
	RoleAdmin         RoleType = "ADMIN"
)

// User defines the user model based on the 'users' table.
// Users are owned by the identity subsystem; the enrollment core only reads them.
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Email       string     `json:"email" db:"email" example:"user@example.com"`                             // User's email address (unique)
	Password    string     `json:"-" db:"password"`                                                         // User's hashed password (excluded from JSON)
	FullName    string     `json:"fullName" db:"full_name" example:"Jane Doe"`                              // User's display name
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"USER"`                                  // User's role
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                                  // Whether the user account is active
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`                // Timestamp when the user was created
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`                // Timestamp when the user was last updated
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2024-04-20T18:00:00Z"` // Timestamp of the last login (nullable)
}

// IsPrivileged reports whether the role may act on other users' enrollments.
func (r RoleType) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleBusinessOwner
}
