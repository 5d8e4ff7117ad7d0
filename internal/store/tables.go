package store

import "fmt"

// Table describes one content table: its columns, the documented default
// sort, whether rows are soft deleted via is_active, and the columns a row
// must carry on insert. The registry is shared by every driver and by the
// diagnostics schema stage.
type Table struct {
	Name         string
	Columns      []string
	DefaultOrder string
	OrderDesc    bool
	SoftDelete   bool
	Required     []string
}

// Content table names.
const (
	TablePrograms  = "programs"
	TableSchedules = "schedules"
	TableMembers   = "organization_members"
	TableEvents    = "events"
	TableAdmins    = "admin_users"
)

var tables = map[string]Table{
	TablePrograms: {
		Name:         TablePrograms,
		Columns:      []string{"id", "name", "frequency", "color", "created_at"},
		DefaultOrder: "name",
		Required:     []string{"name", "frequency"},
	},
	TableSchedules: {
		Name: TableSchedules,
		Columns: []string{
			"id", "program_id", "waktu", "program_name", "deskripsi",
			"penyiar", "kategori", "durasi", "image_url",
			"is_active", "created_at", "updated_at",
		},
		DefaultOrder: "waktu",
		SoftDelete:   true,
		Required:     []string{"waktu", "program_name"},
	},
	TableMembers: {
		Name: TableMembers,
		Columns: []string{
			"id", "name", "position", "department", "email", "phone",
			"photo_url", "bio", "order_index",
			"is_active", "created_at", "updated_at",
		},
		DefaultOrder: "order_index",
		SoftDelete:   true,
		Required:     []string{"name", "position"},
	},
	TableEvents: {
		Name: TableEvents,
		Columns: []string{
			"id", "title", "description", "event_date", "event_time",
			"location", "image_url", "category", "status",
			"max_participants", "contact_info", "is_featured",
			"is_active", "created_at", "updated_at",
		},
		DefaultOrder: "event_date",
		OrderDesc:    true,
		SoftDelete:   true,
		Required:     []string{"title", "event_date"},
	},
	TableAdmins: {
		Name: TableAdmins,
		Columns: []string{
			"id", "username", "email", "full_name", "role", "password_hash",
			"is_active", "created_at", "updated_at",
		},
		DefaultOrder: "username",
		SoftDelete:   true,
		Required:     []string{"username", "email"},
	},
}

// lookupTable resolves a table name against the registry. Unknown tables are
// a validation error: the layer only ever touches whitelisted tables.
func lookupTable(name string) (Table, error) {
	t, ok := tables[name]
	if !ok {
		return Table{}, &ClassifiedError{
			Kind: KindValidation,
			Op:   "lookup",
			Tbl:  name,
			Err:  ErrUnknownTable,
		}
	}
	return t, nil
}

// ContentTables returns the names of the tables holding site content, in the
// fixed order used by diagnostics reports.
func ContentTables() []string {
	return []string{TablePrograms, TableSchedules, TableEvents, TableMembers}
}

// ExpectedColumns returns the registered column set for a table, or nil when
// the table is unknown.
func ExpectedColumns(table string) []string {
	t, ok := tables[table]
	if !ok {
		return nil
	}
	return append([]string(nil), t.Columns...)
}

// checkRequired rejects a record missing any required column. Every driver
// runs it before an insert leaves the process, so an invalid insert is
// always a local validation failure and never commits a row.
func (t Table) checkRequired(rec Row) error {
	for _, col := range t.Required {
		if v, ok := rec[col]; !ok || v == nil || v == "" {
			return fmt.Errorf("null value in column %q: invalid input", col)
		}
	}
	return nil
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
