package repository

import (
	"context"
	"time"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

type ScheduleRepo struct{ Store store.Store }

func NewScheduleRepo(s store.Store) *ScheduleRepo { return &ScheduleRepo{Store: s} }

func scheduleFromRow(r store.Row) model.Schedule {
	return model.Schedule{
		ID:          str(r, "id"),
		ProgramID:   str(r, "program_id"),
		Waktu:       str(r, "waktu"),
		ProgramName: str(r, "program_name"),
		Deskripsi:   str(r, "deskripsi"),
		Penyiar:     str(r, "penyiar"),
		Kategori:    str(r, "kategori"),
		Durasi:      str(r, "durasi"),
		ImageURL:    str(r, "image_url"),
		IsActive:    boolean(r, "is_active"),
		CreatedAt:   ts(r, "created_at"),
		UpdatedAt:   ts(r, "updated_at"),
	}
}

func schedulesFromRows(rows []store.Row) []model.Schedule {
	out := make([]model.Schedule, 0, len(rows))
	for _, r := range rows {
		out = append(out, scheduleFromRow(r))
	}
	return out
}

// ListActive returns active slots ordered by waktu ascending, the order the
// public site renders.
func (s *ScheduleRepo) ListActive(ctx context.Context) ([]model.Schedule, error) {
	rows, err := s.Store.Select(ctx, store.TableSchedules, nil)
	if err != nil {
		return nil, err
	}
	return schedulesFromRows(rows), nil
}

// ListByProgramName filters active slots to one program's schedule.
func (s *ScheduleRepo) ListByProgramName(ctx context.Context, name string) ([]model.Schedule, error) {
	rows, err := s.Store.Select(ctx, store.TableSchedules, store.Filter{"program_name": name})
	if err != nil {
		return nil, err
	}
	return schedulesFromRows(rows), nil
}

// ListAll includes soft-deleted slots for the admin listing.
func (s *ScheduleRepo) ListAll(ctx context.Context) ([]model.Schedule, error) {
	rows, err := s.Store.Select(ctx, store.TableSchedules, nil, store.IncludeInactive())
	if err != nil {
		return nil, err
	}
	return schedulesFromRows(rows), nil
}

func (s *ScheduleRepo) Get(ctx context.Context, id string) (model.Schedule, error) {
	r, err := s.Store.Get(ctx, store.TableSchedules, id)
	if err != nil {
		return model.Schedule{}, err
	}
	return scheduleFromRow(r), nil
}

// Create inserts a new slot. Timestamps are set here; the data layer does
// no server-side timestamping.
func (s *ScheduleRepo) Create(ctx context.Context, in model.Schedule) (model.Schedule, error) {
	now := time.Now().UTC()
	rec := store.Row{
		"program_id":   in.ProgramID,
		"waktu":        in.Waktu,
		"program_name": in.ProgramName,
		"deskripsi":    in.Deskripsi,
		"penyiar":      in.Penyiar,
		"kategori":     in.Kategori,
		"durasi":       in.Durasi,
		"image_url":    in.ImageURL,
		"is_active":    true,
		"created_at":   now,
		"updated_at":   now,
	}
	r, err := s.Store.Insert(ctx, store.TableSchedules, rec)
	if err != nil {
		return model.Schedule{}, err
	}
	return scheduleFromRow(r), nil
}

// Update applies a partial edit. Setting is_active=true here is also the
// reactivation path for soft-deleted slots.
func (s *ScheduleRepo) Update(ctx context.Context, id string, partial store.Row) (model.Schedule, error) {
	partial["updated_at"] = time.Now().UTC()
	r, err := s.Store.Update(ctx, store.TableSchedules, id, partial)
	if err != nil {
		return model.Schedule{}, err
	}
	return scheduleFromRow(r), nil
}

// Delete soft-deletes by default; hard removes the row permanently.
func (s *ScheduleRepo) Delete(ctx context.Context, id string, hard bool) error {
	return s.Store.Delete(ctx, store.TableSchedules, id, !hard)
}
