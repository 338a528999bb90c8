package models

import (
	"time"
)

// User defines the account model based on the 'users' table.
// RelatedID links the account to a Teacher or Student record depending on
// the role; it is resolved into a typed Identity at session start.
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Username    string     `json:"username" db:"username" example:"jdoe"`                    // Login name, unique
	Password    string     `json:"-" db:"password_hash"`                                     // Hashed password (excluded from JSON)
	Role        Role       `json:"role" db:"role" example:"teacher"`                         // Account role
	RelatedID   *string    `json:"relatedId,omitempty" db:"related_id" example:"T01"`        // Teacher or Student primary key, depending on role (nullable)
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                   // Whether the account may log in
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login"`                    // Timestamp of the last login (nullable)
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the account was created
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the account was last updated
}
