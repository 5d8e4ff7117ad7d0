package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

func newTestStore() store.Store {
	return store.NewMem()
}

func TestScheduleLifecycle(t *testing.T) {
	repo := NewScheduleRepo(newTestStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Schedule{
		Waktu:       "06:00",
		ProgramName: "Pro 1",
		Penyiar:     "Budi",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, repo.Delete(ctx, created.ID, false))

	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active, "soft deleted slots leave the public listing")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "admin listing keeps soft deleted slots")
	assert.False(t, all[0].IsActive)

	// reactivation is just an update flipping the flag back
	updated, err := repo.Update(ctx, created.ID, store.Row{"is_active": true})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestScheduleListByProgramName(t *testing.T) {
	repo := NewScheduleRepo(newTestStore())
	ctx := context.Background()

	for _, s := range []model.Schedule{
		{Waktu: "09:00", ProgramName: "Pro 2"},
		{Waktu: "06:00", ProgramName: "Pro 1"},
		{Waktu: "07:00", ProgramName: "Pro 1"},
	} {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	got, err := repo.ListByProgramName(ctx, "Pro 1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "06:00", got[0].Waktu, "slots come back in waktu order")
	assert.Equal(t, "07:00", got[1].Waktu)
}

func TestScheduleHardDelete(t *testing.T) {
	repo := NewScheduleRepo(newTestStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Schedule{Waktu: "06:00", ProgramName: "Pro 1"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID, true))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "hard delete removes the row entirely")

	_, err = repo.Get(ctx, created.ID)
	assert.Equal(t, store.KindNotFound, store.KindOf(err))
}

func TestMemberOrderingKeepsDuplicateIndexes(t *testing.T) {
	repo := NewMemberRepo(newTestStore())
	ctx := context.Background()

	for _, m := range []model.OrganizationMember{
		{Name: "Citra", Position: "Kepala", OrderIndex: 1},
		{Name: "Dewi", Position: "Staff", OrderIndex: 2},
		{Name: "Eka", Position: "Staff", OrderIndex: 2},
	} {
		_, err := repo.Create(ctx, m)
		require.NoError(t, err)
	}

	got, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Citra", got[0].Name)
	// duplicate order_index values keep insertion order, they are not an error
	assert.Equal(t, "Dewi", got[1].Name)
	assert.Equal(t, "Eka", got[2].Name)
}

func TestEventDefaultsAndFeaturedFilter(t *testing.T) {
	repo := NewEventRepo(newTestStore())
	ctx := context.Background()

	first, err := repo.Create(ctx, model.Event{Title: "Gelar Budaya", EventDate: "2025-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "upcoming", first.Status, "status defaults to upcoming")

	_, err = repo.Create(ctx, model.Event{Title: "HUT RRI", EventDate: "2025-09-11", IsFeatured: true})
	require.NoError(t, err)

	featured, err := repo.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "HUT RRI", featured[0].Title)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "2025-09-11", active[0].EventDate, "events list newest first")
}

func TestProgramHardDeleteOnly(t *testing.T) {
	repo := NewProgramRepo(newTestStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Program{Name: "Pro 1", Frequency: "88.5 MHz"})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdminUserLookup(t *testing.T) {
	st := newTestStore()
	repo := NewAdminUserRepo(st)
	ctx := context.Background()

	created, err := repo.Create(ctx, "ADMIN", "Admin@Example.com", "Administrator", "ADMIN", "secret", 4)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", created.Email, "email is normalized to lower case")
	assert.NotEqual(t, "secret", created.PasswordHash)

	got, err := repo.GetByUsername(ctx, "  ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.Equal(t, store.KindNotFound, store.KindOf(err))

	// a deactivated account is invisible to login
	require.NoError(t, st.Delete(ctx, store.TableAdmins, created.ID, true))
	_, err = repo.GetByUsername(ctx, "ADMIN")
	assert.Equal(t, store.KindNotFound, store.KindOf(err))
}

func TestUpdateTouchesUpdatedAt(t *testing.T) {
	repo := NewScheduleRepo(newTestStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Schedule{Waktu: "06:00", ProgramName: "Pro 1"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	updated, err := repo.Update(ctx, created.ID, store.Row{"penyiar": "Sari"})
	require.NoError(t, err)
	assert.Equal(t, "Sari", updated.Penyiar)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}
