package model

import "time"

// Schedule is one slot of the broadcast schedule.
//
// ProgramName is a denormalized copy of the owning program's name taken at
// creation time; it may diverge from Program.Name after a program rename.
type Schedule struct {
	ID          string    `json:"id"`
	ProgramID   string    `json:"program_id"`
	Waktu       string    `json:"waktu"` // time-of-day label, e.g. "06:00 - 07:00"
	ProgramName string    `json:"program_name"`
	Deskripsi   string    `json:"deskripsi"`
	Penyiar     string    `json:"penyiar"` // presenter name
	Kategori    string    `json:"kategori"`
	Durasi      string    `json:"durasi"`
	ImageURL    string    `json:"image_url,omitempty"` // remote URL or inline data URI
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
