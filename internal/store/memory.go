package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore keeps every table in memory. It backs the tests and the
// STORE_DRIVER=memory development mode, and enforces the same whitelist,
// required-column and soft-delete semantics as the real drivers so the
// diagnostics dry-run probe behaves identically against it.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]Row
}

// NewMem takes no retry policy: in-memory operations cannot fail
// transiently, so there is nothing to retry.
func NewMem() *MemStore {
	return &MemStore{data: make(map[string][]Row)}
}

func (s *MemStore) Select(ctx context.Context, table string, filter Filter, opts ...SelectOption) ([]Row, error) {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("SELECT", table, filter, err)
		return nil, err
	}
	o := buildOptions(t, opts)
	for col := range filter {
		if !t.hasColumn(col) {
			err := Classified("SELECT", table, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, col))
			traceOp("SELECT", table, filter, err)
			return nil, err
		}
	}

	s.mu.Lock()
	var out []Row
	for _, r := range s.data[table] {
		if !matches(r, filter) {
			continue
		}
		if t.SoftDelete && !o.includeInactive && !asBool(r["is_active"]) {
			continue
		}
		out = append(out, cloneRow(r))
	}
	s.mu.Unlock()

	if o.orderBy != "" {
		col, desc := o.orderBy, o.orderDesc
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return compareValues(out[i][col], out[j][col]) > 0
			}
			return compareValues(out[i][col], out[j][col]) < 0
		})
	}
	if o.limit > 0 && len(out) > o.limit {
		out = out[:o.limit]
	}
	traceOp("SELECT", table, filter, nil)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, table, id string) (Row, error) {
	rows, err := s.Select(ctx, table, Filter{"id": id}, IncludeInactive(), Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, Classified("GET", table, ErrNotFound)
	}
	return rows[0], nil
}

func (s *MemStore) Insert(ctx context.Context, table string, rec Row) (Row, error) {
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
	if id, _ := rec["id"].(string); id == "" {
		rec["id"] = uuid.NewString()
	}

	s.mu.Lock()
	s.data[table] = append(s.data[table], rec)
	s.mu.Unlock()
	traceOp("INSERT", table, rec, nil)
	return cloneRow(rec), nil
}

func (s *MemStore) Update(ctx context.Context, table, id string, partial Row) (Row, error) {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("UPDATE", table, partial, err)
		return nil, err
	}
	for col := range partial {
		if col != "id" && !t.hasColumn(col) {
			err := Classified("UPDATE", table, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, col))
			traceOp("UPDATE", table, partial, err)
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data[table] {
		if r["id"] == id {
			for k, v := range partial {
				if k == "id" {
					continue
				}
				r[k] = v
			}
			traceOp("UPDATE", table, partial, nil)
			return cloneRow(r), nil
		}
	}
	err = Classified("UPDATE", table, ErrNotFound)
	traceOp("UPDATE", table, partial, err)
	return nil, err
}

func (s *MemStore) Delete(ctx context.Context, table, id string, soft bool) error {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("DELETE", table, id, err)
		return err
	}
	if soft && !t.SoftDelete {
		err := Classified("DELETE", table, ErrNoSoftDelete)
		traceOp("DELETE", table, id, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.data[table]
	for i, r := range rows {
		if r["id"] != id {
			continue
		}
		if soft {
			r["is_active"] = false
			r["updated_at"] = time.Now().UTC()
		} else {
			s.data[table] = append(rows[:i], rows[i+1:]...)
		}
		traceOp("DELETE", table, id, nil)
		return nil
	}
	err = Classified("DELETE", table, ErrNotFound)
	traceOp("DELETE", table, id, err)
	return err
}

func (s *MemStore) Count(ctx context.Context, table string) (int64, error) {
	if _, err := lookupTable(table); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data[table])), nil
}

func (s *MemStore) Ping(ctx context.Context) (time.Duration, error) {
	return 0, nil
}

func matches(r Row, filter Filter) bool {
	for k, want := range filter {
		if fmt.Sprint(r[k]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t == "1" || t == "true"
	}
	return false
}

// compareValues orders mixed scalar values: numerically when both sides are
// numbers, chronologically for times, lexically otherwise.
func compareValues(a, b any) int {
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return at.Compare(bt)
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
