package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Kind classifies a store failure. The retry policy only retries
// connectivity and timeout failures; every other kind propagates on the
// first occurrence.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindConnectivity
	KindAuthorization
	KindValidation
	KindNotFound
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindConnectivity:
		return "connectivity"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Retryable reports whether the failure class is transient.
func (k Kind) Retryable() bool {
	return k == KindConnectivity || k == KindTimeout
}

// Sentinel errors shared across drivers.
var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoSoftDelete is returned when a soft delete is requested for a
	// table without an is_active column (programs).
	ErrNoSoftDelete = errors.New("table does not support soft delete")
)

// ClassifiedError wraps a store failure with its class and a remediation
// hint keyed by that class.
type ClassifiedError struct {
	Kind Kind
	Op   string
	Tbl  string
	Err  error
}

func (e *ClassifiedError) Error() string {
	if e.Tbl != "" {
		return fmt.Sprintf("%s %s: %s: %v (%s)", e.Op, e.Tbl, e.Kind, e.Err, Hint(e.Kind))
	}
	return fmt.Sprintf("%s: %s: %v (%s)", e.Op, e.Kind, e.Err, Hint(e.Kind))
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// KindOf extracts the class from an error chain, KindUnknown if absent.
func KindOf(err error) Kind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Hint returns the human-readable remediation text for a failure class.
func Hint(k Kind) string {
	switch k {
	case KindConfig:
		return "check the store connection settings and environment variables"
	case KindConnectivity:
		return "check network, DNS resolution and firewall rules, and that the database server is up"
	case KindAuthorization:
		return "check credentials and table permissions"
	case KindValidation:
		return "check the payload for missing or malformed fields"
	case KindNotFound:
		return "check that the table and record exist; run migrations if the schema is missing"
	case KindTimeout:
		return "wait and retry; check server load"
	default:
		return "inspect the underlying error"
	}
}

// classify maps an arbitrary driver error to its failure class. It inspects
// sentinels, MySQL error numbers, net errors and finally falls back to
// message heuristics, which is how the remote driver's status-code errors
// and anything unexpected get classified.
func classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownTable), errors.Is(err, ErrUnknownColumn):
		if errors.Is(err, ErrUnknownTable) || errors.Is(err, ErrUnknownColumn) {
			return KindValidation
		}
		return KindNotFound
	case errors.Is(err, ErrNoSoftDelete):
		return KindValidation
	}

	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == 401 || se.code == 403:
			return KindAuthorization
		case se.code == 404:
			return KindNotFound
		case se.code == 400 || se.code == 409 || se.code == 422:
			return KindValidation
		case se.code == 408 || se.code == 504:
			return KindTimeout
		default:
			return KindConnectivity
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1045, 1142, 1143: // access denied variants
			return KindAuthorization
		case 1146, 1054: // table / column missing
			return KindNotFound
		case 1048, 1364, 1062, 1452, 3819: // null, dup key, fk, check
			return KindValidation
		}
		return KindUnknown
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindConnectivity
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return KindTimeout
	case strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset"):
		return KindConnectivity
	case strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "jwt expired") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden"):
		return KindAuthorization
	case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		return KindNotFound
	case strings.Contains(msg, "null value") ||
		strings.Contains(msg, "violates") ||
		strings.Contains(msg, "invalid input"):
		return KindValidation
	}
	return KindUnknown
}

// Classified wraps err with its class, operation and table. Errors that are
// already classified pass through unchanged so the retry loop does not
// double-wrap.
func Classified(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return err
	}
	return &ClassifiedError{Kind: classify(err), Op: op, Tbl: table, Err: err}
}
