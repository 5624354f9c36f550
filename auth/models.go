package auth

import "time"

// User represents a user account as stored in the database. The password
// hash and the stored refresh-token hash are never serialized; API responses
// can therefore return this struct directly as the sanitized "info" payload.
type User struct {
	ID             int        `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	HashedPassword string     `json:"-"`
	Fullname       string     `json:"fullname"`
	DateOfBirth    *time.Time `json:"dateofbirth,omitempty"`
	Image          *string    `json:"image,omitempty"`
	RefreshHash    *string    `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}
