package repository

import (
	"context"
	"time"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

type EventRepo struct{ Store store.Store }

func NewEventRepo(s store.Store) *EventRepo { return &EventRepo{Store: s} }

func eventFromRow(r store.Row) model.Event {
	return model.Event{
		ID:              str(r, "id"),
		Title:           str(r, "title"),
		Description:     str(r, "description"),
		EventDate:       str(r, "event_date"),
		EventTime:       str(r, "event_time"),
		Location:        str(r, "location"),
		ImageURL:        str(r, "image_url"),
		Category:        str(r, "category"),
		Status:          str(r, "status"),
		MaxParticipants: num(r, "max_participants"),
		ContactInfo:     str(r, "contact_info"),
		IsFeatured:      boolean(r, "is_featured"),
		IsActive:        boolean(r, "is_active"),
		CreatedAt:       ts(r, "created_at"),
		UpdatedAt:       ts(r, "updated_at"),
	}
}

func eventsFromRows(rows []store.Row) []model.Event {
	out := make([]model.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, eventFromRow(r))
	}
	return out
}

// ListActive returns active events, newest event_date first.
func (e *EventRepo) ListActive(ctx context.Context) ([]model.Event, error) {
	rows, err := e.Store.Select(ctx, store.TableEvents, nil)
	if err != nil {
		return nil, err
	}
	return eventsFromRows(rows), nil
}

// ListFeatured returns the active events flagged for the homepage banner.
func (e *EventRepo) ListFeatured(ctx context.Context) ([]model.Event, error) {
	rows, err := e.Store.Select(ctx, store.TableEvents, store.Filter{"is_featured": true})
	if err != nil {
		return nil, err
	}
	return eventsFromRows(rows), nil
}

func (e *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	rows, err := e.Store.Select(ctx, store.TableEvents, nil, store.IncludeInactive())
	if err != nil {
		return nil, err
	}
	return eventsFromRows(rows), nil
}

func (e *EventRepo) Get(ctx context.Context, id string) (model.Event, error) {
	r, err := e.Store.Get(ctx, store.TableEvents, id)
	if err != nil {
		return model.Event{}, err
	}
	return eventFromRow(r), nil
}

func (e *EventRepo) Create(ctx context.Context, in model.Event) (model.Event, error) {
	now := time.Now().UTC()
	status := in.Status
	if status == "" {
		status = "upcoming"
	}
	rec := store.Row{
		"title":            in.Title,
		"description":      in.Description,
		"event_date":       in.EventDate,
		"event_time":       in.EventTime,
		"location":         in.Location,
		"image_url":        in.ImageURL,
		"category":         in.Category,
		"status":           status,
		"max_participants": in.MaxParticipants,
		"contact_info":     in.ContactInfo,
		"is_featured":      in.IsFeatured,
		"is_active":        true,
		"created_at":       now,
		"updated_at":       now,
	}
	r, err := e.Store.Insert(ctx, store.TableEvents, rec)
	if err != nil {
		return model.Event{}, err
	}
	return eventFromRow(r), nil
}

func (e *EventRepo) Update(ctx context.Context, id string, partial store.Row) (model.Event, error) {
	partial["updated_at"] = time.Now().UTC()
	r, err := e.Store.Update(ctx, store.TableEvents, id, partial)
	if err != nil {
		return model.Event{}, err
	}
	return eventFromRow(r), nil
}

func (e *EventRepo) Delete(ctx context.Context, id string, hard bool) error {
	return e.Store.Delete(ctx, store.TableEvents, id, !hard)
}
