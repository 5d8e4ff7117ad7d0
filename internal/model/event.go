package model

import "time"

// Event is a station event announced on the site. Status is a free-form
// string (upcoming, ongoing or past by convention) and is not enforced as
// an enumeration at the data layer.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EventDate       string    `json:"event_date"` // YYYY-MM-DD
	EventTime       string    `json:"event_time"`
	Location        string    `json:"location"`
	ImageURL        string    `json:"image_url"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	MaxParticipants int       `json:"max_participants"`
	ContactInfo     string    `json:"contact_info"`
	IsFeatured      bool      `json:"is_featured"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
