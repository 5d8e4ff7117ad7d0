package model

import "time"

// AdminUser is a back-office account. The application treats the table as
// read-only apart from seed tooling; login verifies the configured
// credential pair and then loads the matching row for display metadata.
type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
