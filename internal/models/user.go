package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User roles.
const (
	RoleStudent   = "student"
	RoleCounselor = "counselor"
)

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	// AllowExternalPII records explicit consent to send raw text to the
	// external AI service. Default false: text is pseudonymized first.
	AllowExternalPII bool      `db:"allow_external_pii"`
	CreatedAt        time.Time `db:"created_at"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
