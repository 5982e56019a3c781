package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is the platform wide role carried in identity tokens.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// DevLoginRequest mirrors the development login form: an identity plus an admin toggle.
type DevLoginRequest struct {
	GoogleID string `json:"googleId" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// JWTClaims represents the identity token payload.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	// Backdoor is set by the authentication middleware for requests carrying valid maintenance keys.
	Backdoor bool `json:"-"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token grants administrator rights.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// LoginResponse returns an issued identity token.
type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int64    `json:"expiresIn"`
	UserID      string   `json:"userId"`
	Role        UserRole `json:"role"`
}
