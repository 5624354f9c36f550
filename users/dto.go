// Package users provides user profile management: reading and updating the
// profile of the authenticated user and changing their password.
package users

import "time"

// UserProfileResponse is the sanitized profile payload. It never carries
// the password hash or the stored refresh-token hash.
type UserProfileResponse struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Fullname    string     `json:"fullname"`
	DateOfBirth *time.Time `json:"dateofbirth,omitempty"`
	Image       *string    `json:"image,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UpdateUserProfileRequest carries the profile fields a user may change.
// Nil fields are left untouched, allowing partial updates.
type UpdateUserProfileRequest struct {
	Fullname *string `json:"fullname,omitempty" example:"Jane Doe"`
	Phone    *string `json:"phone,omitempty" example:"+84901234567"`
	// DateOfBirth is a calendar date in YYYY-MM-DD form.
	DateOfBirth *string `json:"dateofbirth,omitempty" example:"1995-04-23"`
	Image       *string `json:"image,omitempty" example:"https://cdn.example.com/avatar.png"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" example:"oldpassword"`
	NewPassword     string `json:"newPassword" example:"newstrongpassword"`
}
