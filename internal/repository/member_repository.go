package repository

import (
	"context"
	"time"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

type MemberRepo struct{ Store store.Store }

func NewMemberRepo(s store.Store) *MemberRepo { return &MemberRepo{Store: s} }

func memberFromRow(r store.Row) model.OrganizationMember {
	return model.OrganizationMember{
		ID:         str(r, "id"),
		Name:       str(r, "name"),
		Position:   str(r, "position"),
		Department: str(r, "department"),
		Email:      str(r, "email"),
		Phone:      str(r, "phone"),
		PhotoURL:   str(r, "photo_url"),
		Bio:        str(r, "bio"),
		OrderIndex: num(r, "order_index"),
		IsActive:   boolean(r, "is_active"),
		CreatedAt:  ts(r, "created_at"),
		UpdatedAt:  ts(r, "updated_at"),
	}
}

func membersFromRows(rows []store.Row) []model.OrganizationMember {
	out := make([]model.OrganizationMember, 0, len(rows))
	for _, r := range rows {
		out = append(out, memberFromRow(r))
	}
	return out
}

// ListActive returns active members ordered by order_index ascending.
func (m *MemberRepo) ListActive(ctx context.Context) ([]model.OrganizationMember, error) {
	rows, err := m.Store.Select(ctx, store.TableMembers, nil)
	if err != nil {
		return nil, err
	}
	return membersFromRows(rows), nil
}

func (m *MemberRepo) ListAll(ctx context.Context) ([]model.OrganizationMember, error) {
	rows, err := m.Store.Select(ctx, store.TableMembers, nil, store.IncludeInactive())
	if err != nil {
		return nil, err
	}
	return membersFromRows(rows), nil
}

func (m *MemberRepo) Get(ctx context.Context, id string) (model.OrganizationMember, error) {
	r, err := m.Store.Get(ctx, store.TableMembers, id)
	if err != nil {
		return model.OrganizationMember{}, err
	}
	return memberFromRow(r), nil
}

func (m *MemberRepo) Create(ctx context.Context, in model.OrganizationMember) (model.OrganizationMember, error) {
	now := time.Now().UTC()
	rec := store.Row{
		"name":        in.Name,
		"position":    in.Position,
		"department":  in.Department,
		"email":       in.Email,
		"phone":       in.Phone,
		"photo_url":   in.PhotoURL,
		"bio":         in.Bio,
		"order_index": in.OrderIndex,
		"is_active":   true,
		"created_at":  now,
		"updated_at":  now,
	}
	r, err := m.Store.Insert(ctx, store.TableMembers, rec)
	if err != nil {
		return model.OrganizationMember{}, err
	}
	return memberFromRow(r), nil
}

func (m *MemberRepo) Update(ctx context.Context, id string, partial store.Row) (model.OrganizationMember, error) {
	partial["updated_at"] = time.Now().UTC()
	r, err := m.Store.Update(ctx, store.TableMembers, id, partial)
	if err != nil {
		return model.OrganizationMember{}, err
	}
	return memberFromRow(r), nil
}

func (m *MemberRepo) Delete(ctx context.Context, id string, hard bool) error {
	return m.Store.Delete(ctx, store.TableMembers, id, !hard)
}
