package repository

import (
	"context"
	"strings"
	"time"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
	"github.com/rrijambi/station-backend/internal/utils"
)

type AdminUserRepo struct{ Store store.Store }

func NewAdminUserRepo(s store.Store) *AdminUserRepo { return &AdminUserRepo{Store: s} }

func adminFromRow(r store.Row) model.AdminUser {
	return model.AdminUser{
		ID:           str(r, "id"),
		Username:     str(r, "username"),
		Email:        str(r, "email"),
		FullName:     str(r, "full_name"),
		Role:         str(r, "role"),
		PasswordHash: str(r, "password_hash"),
		IsActive:     boolean(r, "is_active"),
		CreatedAt:    ts(r, "created_at"),
		UpdatedAt:    ts(r, "updated_at"),
	}
}

// GetByUsername fetches an active admin account. Soft-deleted accounts are
// filtered by the store's default, so a deactivated admin cannot log in.
func (a *AdminUserRepo) GetByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	username = strings.TrimSpace(username)
	rows, err := a.Store.Select(ctx, store.TableAdmins,
		store.Filter{"username": username}, store.Limit(1))
	if err != nil {
		return model.AdminUser{}, err
	}
	if len(rows) == 0 {
		return model.AdminUser{}, store.Classified("GET", store.TableAdmins, store.ErrNotFound)
	}
	return adminFromRow(rows[0]), nil
}

// Create inserts an admin account with a bcrypt password hash. Used by seed
// tooling only; the HTTP surface never writes this table.
func (a *AdminUserRepo) Create(ctx context.Context, username, email, fullName, role, password string, bcryptCost int) (model.AdminUser, error) {
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return model.AdminUser{}, err
	}
	now := time.Now().UTC()
	rec := store.Row{
		"username":      strings.TrimSpace(username),
		"email":         strings.ToLower(strings.TrimSpace(email)),
		"full_name":     fullName,
		"role":          role,
		"password_hash": hash,
		"is_active":     true,
		"created_at":    now,
		"updated_at":    now,
	}
	r, err := a.Store.Insert(ctx, store.TableAdmins, rec)
	if err != nil {
		return model.AdminUser{}, err
	}
	return adminFromRow(r), nil
}
