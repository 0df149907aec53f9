package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload issued by the identity backend.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	UserType UserType `json:"user_type"`
	Email    string   `json:"email"`
	SchoolID string   `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}
