package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RESTStore talks to a PostgREST-style endpoint (the hosted
// backend-as-a-service deployment option). Requests carry the
// API key both as apikey header and Bearer token; responses are JSON arrays
// of records.
type RESTStore struct {
	base   string
	apiKey string
	client *http.Client
	retry  RetryPolicy
}

// NewREST builds the remote driver. base is the service root, e.g.
// https://example.supabase.co; the /rest/v1 prefix is appended here.
func NewREST(base, apiKey string, retry RetryPolicy) *RESTStore {
	return &RESTStore{
		base:   strings.TrimRight(base, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		retry:  retry,
	}
}

// statusError carries a non-2xx response so classify can map it by code.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.body)
}

func (s *RESTStore) do(ctx context.Context, method, path string, q url.Values, body any, extra http.Header) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(buf)
	}
	u := s.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

func decodeRows(resp *http.Response) ([]Row, error) {
	defer resp.Body.Close()
	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RESTStore) query(t Table, filter Filter, o selectOptions) (url.Values, error) {
	q := url.Values{}
	for col, v := range filter {
		if !t.hasColumn(col) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, col)
		}
		q.Set(col, fmt.Sprintf("eq.%v", v))
	}
	if t.SoftDelete && !o.includeInactive {
		q.Set("is_active", "eq.true")
	}
	if o.orderBy != "" {
		if !t.hasColumn(o.orderBy) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, o.orderBy)
		}
		dir := ".asc"
		if o.orderDesc {
			dir = ".desc"
		}
		q.Set("order", o.orderBy+dir)
	}
	if o.limit > 0 {
		q.Set("limit", strconv.Itoa(o.limit))
	}
	return q, nil
}

func (s *RESTStore) Select(ctx context.Context, table string, filter Filter, opts ...SelectOption) ([]Row, error) {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("SELECT", table, filter, err)
		return nil, err
	}
	q, err := s.query(t, filter, buildOptions(t, opts))
	if err != nil {
		err = Classified("SELECT", table, err)
		traceOp("SELECT", table, filter, err)
		return nil, err
	}
	var out []Row
	err = s.retry.Do(ctx, "SELECT", table, func() error {
		resp, derr := s.do(ctx, http.MethodGet, "/rest/v1/"+t.Name, q, nil, nil)
		if derr != nil {
			return derr
		}
		rows, derr := decodeRows(resp)
		if derr != nil {
			return derr
		}
		out = rows
		return nil
	})
	traceOp("SELECT", table, filter, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RESTStore) Get(ctx context.Context, table, id string) (Row, error) {
	rows, err := s.Select(ctx, table, Filter{"id": id}, IncludeInactive(), Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, Classified("GET", table, ErrNotFound)
	}
	return rows[0], nil
}

func (s *RESTStore) Insert(ctx context.Context, table string, rec Row) (Row, error) {
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
	hdr := http.Header{"Prefer": []string{"return=representation"}}
	var out Row
	err = s.retry.Do(ctx, "INSERT", table, func() error {
		resp, derr := s.do(ctx, http.MethodPost, "/rest/v1/"+t.Name, nil, rec, hdr)
		if derr != nil {
			return derr
		}
		rows, derr := decodeRows(resp)
		if derr != nil {
			return derr
		}
		if len(rows) == 0 {
			return ErrNotFound
		}
		out = rows[0]
		return nil
	})
	traceOp("INSERT", table, rec, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RESTStore) Update(ctx context.Context, table, id string, partial Row) (Row, error) {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("UPDATE", table, partial, err)
		return nil, err
	}
	for col := range partial {
		if !t.hasColumn(col) {
			err := Classified("UPDATE", table, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, col))
			traceOp("UPDATE", table, partial, err)
			return nil, err
		}
	}
	q := url.Values{"id": []string{"eq." + id}}
	hdr := http.Header{"Prefer": []string{"return=representation"}}
	var out Row
	err = s.retry.Do(ctx, "UPDATE", table, func() error {
		resp, derr := s.do(ctx, http.MethodPatch, "/rest/v1/"+t.Name, q, partial, hdr)
		if derr != nil {
			return derr
		}
		rows, derr := decodeRows(resp)
		if derr != nil {
			return derr
		}
		if len(rows) == 0 {
			return ErrNotFound
		}
		out = rows[0]
		return nil
	})
	traceOp("UPDATE", table, partial, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RESTStore) Delete(ctx context.Context, table, id string, soft bool) error {
	t, err := lookupTable(table)
	if err != nil {
		traceOp("DELETE", table, id, err)
		return err
	}
	q := url.Values{"id": []string{"eq." + id}}
	err = s.retry.Do(ctx, "DELETE", table, func() error {
		if soft {
			if !t.SoftDelete {
				return ErrNoSoftDelete
			}
			partial := Row{"is_active": false, "updated_at": time.Now().UTC().Format(time.RFC3339)}
			resp, derr := s.do(ctx, http.MethodPatch, "/rest/v1/"+t.Name, q,
				partial, http.Header{"Prefer": []string{"return=representation"}})
			if derr != nil {
				return derr
			}
			rows, derr := decodeRows(resp)
			if derr != nil {
				return derr
			}
			if len(rows) == 0 {
				return ErrNotFound
			}
			return nil
		}
		resp, derr := s.do(ctx, http.MethodDelete, "/rest/v1/"+t.Name, q, nil, nil)
		if derr != nil {
			return derr
		}
		resp.Body.Close()
		return nil
	})
	traceOp("DELETE", table, id, err)
	return err
}

func (s *RESTStore) Count(ctx context.Context, table string) (int64, error) {
	t, err := lookupTable(table)
	if err != nil {
		return 0, err
	}
	hdr := http.Header{
		"Prefer": []string{"count=exact"},
		"Range":  []string{"0-0"},
	}
	var n int64
	err = s.retry.Do(ctx, "COUNT", table, func() error {
		resp, derr := s.do(ctx, http.MethodHead, "/rest/v1/"+t.Name, nil, nil, hdr)
		if derr != nil {
			return derr
		}
		resp.Body.Close()
		cr := resp.Header.Get("Content-Range") // e.g. "0-0/42"
		if i := strings.LastIndex(cr, "/"); i >= 0 {
			if v, perr := strconv.ParseInt(cr[i+1:], 10, 64); perr == nil {
				n = v
				return nil
			}
		}
		return fmt.Errorf("invalid input: missing count in Content-Range %q", cr)
	})
	traceOp("COUNT", table, nil, err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Ping issues a timed HEAD probe against the REST root, mirroring the
// lightweight connectivity check the diagnostics service uses.
func (s *RESTStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	resp, err := s.do(ctx, http.MethodHead, "/rest/v1/", nil, nil, nil)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, Classified("PING", "", err)
	}
	resp.Body.Close()
	return elapsed, nil
}

// RefreshSession asks the auth endpoint for a fresh token. It is the health
// monitor's best-effort recovery action; failures are reported but the
// monitor only logs them.
func (s *RESTStore) RefreshSession(ctx context.Context) error {
	q := url.Values{"grant_type": []string{"refresh_token"}}
	resp, err := s.do(ctx, http.MethodPost, "/auth/v1/token", q,
		map[string]string{"refresh_token": s.apiKey}, nil)
	if err != nil {
		return Classified("REFRESH", "", err)
	}
	resp.Body.Close()
	return nil
}
