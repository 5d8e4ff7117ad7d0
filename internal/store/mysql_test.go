package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, name string) Table {
	t.Helper()
	tbl, err := lookupTable(name)
	require.NoError(t, err)
	return tbl
}

func TestBuildSelectAppliesTableDefaults(t *testing.T) {
	tbl := mustTable(t, TableSchedules)

	query, args, err := buildSelect(tbl, nil, buildOptions(tbl, nil))
	require.NoError(t, err)
	assert.Contains(t, query, "FROM schedules")
	assert.Contains(t, query, "WHERE is_active=?")
	assert.Contains(t, query, "ORDER BY waktu")
	assert.NotContains(t, query, "DESC")
	assert.Equal(t, []any{true}, args)
}

func TestBuildSelectEventsOrderDescending(t *testing.T) {
	tbl := mustTable(t, TableEvents)

	query, _, err := buildSelect(tbl, nil, buildOptions(tbl, nil))
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY event_date DESC")
}

func TestBuildSelectIncludeInactiveSkipsActiveFilter(t *testing.T) {
	tbl := mustTable(t, TableMembers)

	query, args, err := buildSelect(tbl, nil, buildOptions(tbl, []SelectOption{IncludeInactive()}))
	require.NoError(t, err)
	assert.NotContains(t, query, "is_active")
	assert.Empty(t, args)
	assert.Contains(t, query, "ORDER BY order_index")
}

func TestBuildSelectFilterAndLimit(t *testing.T) {
	tbl := mustTable(t, TableSchedules)
	opts := buildOptions(tbl, []SelectOption{Limit(5)})

	query, args, err := buildSelect(tbl, Filter{"program_name": "Pro 1"}, opts)
	require.NoError(t, err)
	assert.Contains(t, query, "program_name=?")
	assert.Contains(t, query, "is_active=?")
	assert.Contains(t, query, "LIMIT 5")
	assert.Equal(t, []any{"Pro 1", true}, args)
}

func TestBuildSelectProgramsHaveNoActiveFilter(t *testing.T) {
	tbl := mustTable(t, TablePrograms)

	query, args, err := buildSelect(tbl, nil, buildOptions(tbl, nil))
	require.NoError(t, err)
	assert.NotContains(t, query, "is_active")
	assert.Empty(t, args)
	assert.Contains(t, query, "ORDER BY name")
}

func TestBuildSelectRejectsUnknownColumns(t *testing.T) {
	tbl := mustTable(t, TableSchedules)

	_, _, err := buildSelect(tbl, Filter{"drop table": 1}, buildOptions(tbl, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	_, _, err = buildSelect(tbl, nil, buildOptions(tbl, []SelectOption{OrderBy("nonexistent", false)}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestBuildSelectOrderOverride(t *testing.T) {
	tbl := mustTable(t, TableEvents)
	opts := buildOptions(tbl, []SelectOption{OrderBy("created_at", false)})

	query, _, err := buildSelect(tbl, nil, opts)
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY created_at")
	assert.NotContains(t, query, "DESC")
}

func TestLookupTableRejectsUnknownTable(t *testing.T) {
	_, err := lookupTable("users; drop table users")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, errors.Is(err, ErrUnknownTable))
}

func TestSQLInsertMissingRequiredColumnsNeverReachesDatabase(t *testing.T) {
	// No pool behind the store: reaching the database would panic, so a
	// clean validation error proves the insert was rejected locally.
	s := &SQLStore{retry: RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}}

	for _, table := range ContentTables() {
		_, err := s.Insert(context.Background(), table, Row{})
		require.Error(t, err, table)
		assert.Equal(t, KindValidation, KindOf(err), table)
		assert.Contains(t, err.Error(), "null value in column", table)
	}

	_, err := s.Insert(context.Background(), TableEvents, Row{"title": "Anniversary"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), `"event_date"`)
}
