// Package model defines the persisted entities of the station site. Column
// names keep the database schema's Indonesian labels (waktu, penyiar,
// kategori) so the structs map one to one onto the tables and onto the JSON
// the public site consumes.
package model

import "time"

// Program is a broadcast channel of the station (e.g. Pro 1, Pro 2). It has
// no soft-delete flag: programs are a small fixed set referenced by
// schedules via program_id.
type Program struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency"` // e.g. "88.5 FM"
	Color     string    `json:"color"`     // accent color used by the site
	CreatedAt time.Time `json:"created_at"`
}
