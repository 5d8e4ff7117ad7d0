package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// SQLStore is the MySQL driver. SQL is built by hand from the table
// registry, so only whitelisted tables and columns ever reach the server.
type SQLStore struct {
	db    *sql.DB
	retry RetryPolicy
}

// OpenSQL connects to MySQL, verifies the connection and returns the store.
func OpenSQL(user, pass, host, port, name string, retry RetryPolicy) (*SQLStore, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, Classified("open", "", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, Classified("open", "", err)
	}
	return &SQLStore{db: db, retry: retry}, nil
}

// DB exposes the underlying pool (used by seed tooling).
func (s *SQLStore) DB() *sql.DB { return s.db }

// buildSelect assembles a parameterized SELECT honoring the table defaults.
// Filter keys and order columns must exist in the registry.
func buildSelect(t Table, filter Filter, o selectOptions) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(t.Columns, ","))
	sb.WriteString(" FROM ")
	sb.WriteString(t.Name)

	var conds []string
	var args []any
	for _, col := range t.Columns {
		v, ok := filter[col]
		if !ok {
			continue
		}
		conds = append(conds, col+"=?")
		args = append(args, v)
	}
	for col := range filter {
		if !t.hasColumn(col) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, col)
		}
	}
	if t.SoftDelete && !o.includeInactive {
		conds = append(conds, "is_active=?")
		args = append(args, true)
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	if o.orderBy != "" {
		if !t.hasColumn(o.orderBy) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, o.orderBy)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(o.orderBy)
		if o.orderDesc {
			sb.WriteString(" DESC")
		}
	}
	if o.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", o.limit))
	}
	return sb.String(), args, nil
}

func (s *SQLStore) Select(ctx context.Context, table string, filter Filter, opts ...SelectOption) ([]Row, error) {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("SELECT", table, filter, err)
		return nil, err
	}
	o := buildOptions(t, opts)
	query, args, err := buildSelect(t, filter, o)
	if err != nil {
		err = Classified("SELECT", table, err)
		traceOp("SELECT", table, filter, err)
		return nil, err
	}

	var out []Row
	err = s.retry.Do(ctx, "SELECT", table, func() error {
		rows, qerr := s.db.QueryContext(ctx, query, args...)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		scanned, serr := scanRows(rows)
		if serr != nil {
			return serr
		}
		out = scanned
		return rows.Err()
	})
	traceOp("SELECT", table, filter, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, table, id string) (Row, error) {
	rows, err := s.Select(ctx, table, Filter{"id": id}, IncludeInactive(), Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, Classified("GET", table, ErrNotFound)
	}
	return rows[0], nil
}

func (s *SQLStore) Insert(ctx context.Context, table string, rec Row) (Row, error) {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("INSERT", table, rec, err)
		return nil, err
	}
	rec = cloneRow(rec)
	for col := range rec {
		if !t.hasColumn(col) {
			err := Classified("INSERT", table, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, col))
			traceOp("INSERT", table, rec, err)
			return nil, err
		}
	}
	if rerr := t.checkRequired(rec); rerr != nil {
		err := Classified("INSERT", table, rerr)
		traceOp("INSERT", table, rec, err)
		return nil, err
	}
	id, _ := rec["id"].(string)
	if id == "" {
		id = uuid.NewString()
		rec["id"] = id
	}

	var cols []string
	var marks []string
	var args []any
	for _, col := range t.Columns {
		v, ok := rec[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		marks = append(marks, "?")
		args = append(args, v)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(cols, ","), strings.Join(marks, ","))

	err = s.retry.Do(ctx, "INSERT", table, func() error {
		_, xerr := s.db.ExecContext(ctx, query, args...)
		return xerr
	})
	traceOp("INSERT", table, rec, err)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, table, id)
}

func (s *SQLStore) Update(ctx context.Context, table, id string, partial Row) (Row, error) {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("UPDATE", table, partial, err)
		return nil, err
	}
	var sets []string
	var args []any
	for _, col := range t.Columns {
		if col == "id" {
			continue
		}
		v, ok := partial[col]
		if !ok {
			continue
		}
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	for col := range partial {
		if col != "id" && !t.hasColumn(col) {
			err := Classified("UPDATE", table, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, col))
			traceOp("UPDATE", table, partial, err)
			return nil, err
		}
	}
	if len(sets) == 0 {
		err := Classified("UPDATE", table, fmt.Errorf("empty update: invalid input"))
		traceOp("UPDATE", table, partial, err)
		return nil, err
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id=?", t.Name, strings.Join(sets, ","))
	args = append(args, id)

	err = s.retry.Do(ctx, "UPDATE", table, func() error {
		res, xerr := s.db.ExecContext(ctx, query, args...)
		if xerr != nil {
			return xerr
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Either the id is missing or the values already match; a
			// follow-up Get distinguishes the two.
			if _, gerr := s.Get(ctx, table, id); gerr != nil {
				return ErrNotFound
			}
		}
		return nil
	})
	traceOp("UPDATE", table, partial, err)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, table, id)
}

func (s *SQLStore) Delete(ctx context.Context, table, id string, soft bool) error {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("DELETE", table, id, err)
		return err
	}
	var query string
	var args []any
	if soft {
		if !t.SoftDelete {
			err := Classified("DELETE", table, ErrNoSoftDelete)
			traceOp("DELETE", table, id, err)
			return err
		}
		query = fmt.Sprintf("UPDATE %s SET is_active=?, updated_at=? WHERE id=?", t.Name)
		args = []any{false, time.Now().UTC(), id}
	} else {
		query = fmt.Sprintf("DELETE FROM %s WHERE id=?", t.Name)
		args = []any{id}
	}
	err = s.retry.Do(ctx, "DELETE", table, func() error {
		res, xerr := s.db.ExecContext(ctx, query, args...)
		if xerr != nil {
			return xerr
		}
		// Soft deletes always touch updated_at, so zero affected rows
		// means the id does not exist for either path.
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	traceOp("DELETE", table, id, err)
	return err
}

func (s *SQLStore) Count(ctx context.Context, table string) (int64, error) {
	t, err := lookupTable(table)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.retry.Do(ctx, "COUNT", table, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.Name).Scan(&n)
	})
	traceOp("COUNT", table, nil, err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Ping issues a timed connection check; the health monitor measures the
// returned elapsed time against its degradation threshold.
func (s *SQLStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		return time.Since(start), Classified("PING", "", err)
	}
	return time.Since(start), nil
}

// scanRows converts a generic result set into Rows. []byte values become
// strings so callers never see driver internals.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		r := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				r[c] = string(b)
				continue
			}
			r[c] = vals[i]
		}
		out = append(out, r)
	}
	return out, nil
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
