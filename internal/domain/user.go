package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Lastname      string    `json:"lastname"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Active        bool      `json:"active"`
	RoleID        int       `json:"role_id"`
	OwnerID       *string   `json:"owner_id"`
	ParentOwnerID *string   `json:"parent_owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Claims struct {
	UserID            int
	UserName          string
	UserLastname      string
	UserEmail         string
	UserActive        bool
	UserRoleID        int
	UserOwnerID       *string
	UserParentOwnerID *string
	jwt.RegisteredClaims
}
