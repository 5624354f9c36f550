// Package auth provides authentication functionality: registration, login,
// refresh-token rotation and logout. This file defines the request and
// response payloads for the /auth endpoints.
package auth

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username string `json:"username" example:"newuser"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
	Fullname string `json:"fullname" example:"New User"`
	// Optional profile fields. DateOfBirth is a calendar date in YYYY-MM-DD form.
	Phone       *string `json:"phone,omitempty" example:"+84901234567"`
	DateOfBirth *string `json:"dateofbirth,omitempty" example:"1995-04-23"`
	Image       *string `json:"image,omitempty" example:"https://cdn.example.com/avatar.png"`
}

// LoginRequest represents the login request payload. Username accepts a
// username, an email address or a phone number.
type LoginRequest struct {
	Username string `json:"username" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
}

// AuthResponse is returned on successful registration and login.
type AuthResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in" example:"900"`
	Info      *User `json:"info"`
}

// TokenResponse is returned on successful token refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int64  `json:"expires_in" example:"900"`
}
