// Package repository provides typed access to the content tables on top of
// the generic store. Each repository converts store rows to models, leaving
// the active-row filtering, sort order and retry policy to the store layer.
package repository

import (
	"fmt"
	"time"

	"github.com/rrijambi/station-backend/internal/store"
)

// The helpers below coerce row values that arrive typed differently per
// driver: MySQL yields time.Time and int64, the REST driver yields RFC3339
// strings and float64.

func str(r store.Row, col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func num(r store.Row, col string) int {
	switch t := r[col].(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		var n int
		fmt.Sscanf(t, "%d", &n)
		return n
	}
	return 0
}

func boolean(r store.Row, col string) bool {
	switch t := r[col].(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t == "1" || t == "true"
	}
	return false
}

func ts(r store.Row, col string) time.Time {
	switch t := r[col].(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
