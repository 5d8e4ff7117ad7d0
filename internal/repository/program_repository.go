package repository

import (
	"context"
	"time"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

type ProgramRepo struct{ Store store.Store }

func NewProgramRepo(s store.Store) *ProgramRepo { return &ProgramRepo{Store: s} }

func programFromRow(r store.Row) model.Program {
	return model.Program{
		ID:        str(r, "id"),
		Name:      str(r, "name"),
		Frequency: str(r, "frequency"),
		Color:     str(r, "color"),
		CreatedAt: ts(r, "created_at"),
	}
}

// List returns all programs ordered by name. Programs carry no is_active
// flag, so there is no active/inactive split.
func (p *ProgramRepo) List(ctx context.Context) ([]model.Program, error) {
	rows, err := p.Store.Select(ctx, store.TablePrograms, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Program, 0, len(rows))
	for _, r := range rows {
		out = append(out, programFromRow(r))
	}
	return out, nil
}

func (p *ProgramRepo) Get(ctx context.Context, id string) (model.Program, error) {
	r, err := p.Store.Get(ctx, store.TablePrograms, id)
	if err != nil {
		return model.Program{}, err
	}
	return programFromRow(r), nil
}

func (p *ProgramRepo) Create(ctx context.Context, in model.Program) (model.Program, error) {
	rec := store.Row{
		"name":       in.Name,
		"frequency":  in.Frequency,
		"color":      in.Color,
		"created_at": time.Now().UTC(),
	}
	r, err := p.Store.Insert(ctx, store.TablePrograms, rec)
	if err != nil {
		return model.Program{}, err
	}
	return programFromRow(r), nil
}

func (p *ProgramRepo) Update(ctx context.Context, id string, partial store.Row) (model.Program, error) {
	r, err := p.Store.Update(ctx, store.TablePrograms, id, partial)
	if err != nil {
		return model.Program{}, err
	}
	return programFromRow(r), nil
}

// Delete removes a program permanently: the table has no soft-delete flag.
func (p *ProgramRepo) Delete(ctx context.Context, id string) error {
	return p.Store.Delete(ctx, store.TablePrograms, id, false)
}
