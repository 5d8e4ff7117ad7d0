// Package store implements the data access layer for the station's content
// tables. A single Store interface is implemented by three drivers (MySQL,
// a PostgREST-style remote API and an in-memory store) selected once at
// startup. All drivers share the same retry policy, error classification
// and per-table defaults for active-row filtering and sort order.
package store

import (
	"context"
	"log"
	"time"
)

// Row is a generic record keyed by column name. Values are whatever the
// driver produced: strings, numbers, bools or time.Time.
type Row map[string]any

// Filter is an equality filter over named columns.
type Filter map[string]any

// Store is the contract every driver satisfies. Select applies the table's
// default active-row filter and sort order unless overridden through
// options, so call sites cannot drift apart on filtering or ordering.
type Store interface {
	Select(ctx context.Context, table string, filter Filter, opts ...SelectOption) ([]Row, error)
	Get(ctx context.Context, table, id string) (Row, error)
	Insert(ctx context.Context, table string, rec Row) (Row, error)
	Update(ctx context.Context, table, id string, partial Row) (Row, error)
	Delete(ctx context.Context, table, id string, soft bool) error
	Count(ctx context.Context, table string) (int64, error)
	Ping(ctx context.Context) (time.Duration, error)
}

// SessionRefresher is implemented by drivers that hold a renewable session
// (currently only the REST driver). The health monitor uses it as its
// best-effort recovery action.
type SessionRefresher interface {
	RefreshSession(ctx context.Context) error
}

// selectOptions collects the per-call overrides of the table defaults.
type selectOptions struct {
	includeInactive bool
	orderBy         string
	orderDesc       bool
	limit           int
}

// SelectOption customizes a Select call.
type SelectOption func(*selectOptions)

// IncludeInactive disables the default is_active=true filter so that soft
// deleted rows are returned as well (admin listings, schema probes).
func IncludeInactive() SelectOption {
	return func(o *selectOptions) { o.includeInactive = true }
}

// OrderBy overrides the table's default sort column.
func OrderBy(column string, desc bool) SelectOption {
	return func(o *selectOptions) {
		o.orderBy = column
		o.orderDesc = desc
	}
}

// Limit caps the number of returned rows. Zero means no limit.
func Limit(n int) SelectOption {
	return func(o *selectOptions) { o.limit = n }
}

func buildOptions(t Table, opts []SelectOption) selectOptions {
	o := selectOptions{orderBy: t.DefaultOrder, orderDesc: t.OrderDesc}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// traceOp writes the operation trace required for debuggability: operation,
// table, parameters and outcome. It is a side effect only and never alters
// the result.
func traceOp(op, table string, params any, err error) {
	if err != nil {
		log.Printf("store: %s %s params=%v err=%v", op, table, params, err)
		return
	}
	log.Printf("store: %s %s params=%v ok", op, table, params)
}
