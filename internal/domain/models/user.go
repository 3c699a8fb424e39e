package models

import "time"

// User roles.
const (
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// User represents an account from the static identity table. Accounts are
// seeded at startup from configuration; there is no self-registration and
// passwords are stored as configured (plaintext by design).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
