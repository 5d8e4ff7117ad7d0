package model

import "time"

// OrganizationMember is one entry of the station's staff structure page.
// OrderIndex controls display order; uniqueness is not enforced, duplicate
// keys sort in insertion order.
type OrganizationMember struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	PhotoURL   string    `json:"photo_url"`
	Bio        string    `json:"bio"`
	OrderIndex int       `json:"order_index"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
