package entity

import (
	"github.com/google/uuid"
)

// Role is the closed set of marketplace roles. Authorization checks in the
// service layer switch exhaustively over these values; an unknown role is
// always refused rather than falling through.
type Role string

const (
	RoleUser       Role = "USER"
	RoleContractor Role = "CONTRACTOR"
	RoleFarmer     Role = "FARMER"
	RoleAdmin      Role = "ADMIN"
)

// db model
type User struct {
	Id       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	Role     Role      `json:"role" db:"role"`
}
