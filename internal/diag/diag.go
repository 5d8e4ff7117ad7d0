// Package diag runs the on-demand store diagnostics sweep: six independent
// stages whose results are aggregated into one report. A stage failure is
// captured in that stage's own result and never aborts the later stages.
// The sweep is exposed on the admin API and as the diag CLI command so
// deploy scripts can gate on it.
package diag

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rrijambi/station-backend/internal/store"
)

// Stage status values, spelled the way the admin dashboard expects them.
const (
	StatusPassed        = "PASSED"
	StatusFailed        = "FAILED"
	StatusConnected     = "CONNECTED"
	StatusAuthenticated = "AUTHENTICATED"
	StatusAnonymous     = "ANONYMOUS"
	StatusNoSession     = "NO_SESSION"
	StatusSuccess       = "SUCCESS"
	StatusValid         = "VALID"
	StatusIncomplete    = "INCOMPLETE"
	StatusError         = "ERROR"
)

// Config carries what the sweep needs to know about the deployment.
// Endpoint is the store's base URL (the REST service root, or a tcp://
// pseudo-URL describing the MySQL target); APIKey is only meaningful for
// the REST driver. Token is the invoking session's bearer token, if any.
type Config struct {
	Driver    string
	Endpoint  string
	APIKey    string
	JWTSecret string
	Token     string
}

// Report is the composite point-in-time result.
type Report struct {
	Environment    EnvironmentResult           `json:"environment"`
	Connectivity   ConnectivityResult          `json:"connectivity"`
	Authentication AuthResult                  `json:"authentication"`
	Permissions    map[string]TablePermissions `json:"permissions"`
	Performance    []PerformanceResult         `json:"performance"`
	Schema         map[string]SchemaResult     `json:"schema"`
}

type EnvironmentResult struct {
	Status string            `json:"status"`
	Issues []string          `json:"issues,omitempty"`
	Checks map[string]string `json:"checks"`
}

type ConnectivityResult struct {
	Status       string `json:"status"`
	StatusCode   int    `json:"status_code,omitempty"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type AuthResult struct {
	Status  string `json:"status"`
	Subject string `json:"subject,omitempty"`
	Expires int64  `json:"expires,omitempty"`
	Error   string `json:"error,omitempty"`
}

type TablePermissions struct {
	Select      bool   `json:"select"`
	Insert      bool   `json:"insert"`
	SelectError string `json:"select_error,omitempty"`
	InsertError string `json:"insert_error,omitempty"`
}

type PerformanceResult struct {
	Test   string `json:"test"`
	TimeMS int64  `json:"time_ms"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type SchemaResult struct {
	Status   string   `json:"status"`
	Expected []string `json:"expected_columns,omitempty"`
	Actual   []string `json:"actual_columns,omitempty"`
	Missing  []string `json:"missing_columns,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Runner executes the sweep against one store.
type Runner struct {
	cfg    Config
	st     store.Store
	client *http.Client
}

func New(cfg Config, st store.Store) *Runner {
	return &Runner{cfg: cfg, st: st, client: &http.Client{Timeout: 10 * time.Second}}
}

// Run executes all six stages in their fixed report order.
func (r *Runner) Run(ctx context.Context) Report {
	return Report{
		Environment:    r.checkEnvironment(),
		Connectivity:   r.testConnectivity(ctx),
		Authentication: r.testAuthentication(),
		Permissions:    r.testPermissions(ctx),
		Performance:    r.testPerformance(ctx),
		Schema:         r.validateSchema(ctx),
	}
}

// checkEnvironment validates the configuration shape without touching the
// network. Missing or malformed values are fatal for this stage.
func (r *Runner) checkEnvironment() EnvironmentResult {
	checks := map[string]string{
		"driver":   r.cfg.Driver,
		"endpoint": r.cfg.Endpoint,
	}
	var issues []string
	if r.cfg.Endpoint == "" {
		issues = append(issues, "missing endpoint")
	}
	if r.cfg.Driver == "rest" {
		checks["key_length"] = fmt.Sprint(len(r.cfg.APIKey))
		if !strings.HasPrefix(r.cfg.Endpoint, "https://") {
			issues = append(issues, "endpoint must use HTTPS")
		}
		if r.cfg.APIKey == "" {
			issues = append(issues, "missing API key")
		} else if len(r.cfg.APIKey) < 20 {
			issues = append(issues, "API key appears too short")
		}
	}
	if len(issues) > 0 {
		return EnvironmentResult{Status: StatusFailed, Issues: issues, Checks: checks}
	}
	return EnvironmentResult{Status: StatusPassed, Checks: checks}
}

// testConnectivity probes the endpoint: an HTTP HEAD for http(s) endpoints,
// the store's own ping otherwise. Records round-trip time either way.
func (r *Runner) testConnectivity(ctx context.Context) ConnectivityResult {
	if strings.HasPrefix(r.cfg.Endpoint, "http://") || strings.HasPrefix(r.cfg.Endpoint, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead,
			strings.TrimRight(r.cfg.Endpoint, "/")+"/rest/v1/", nil)
		if err != nil {
			return ConnectivityResult{Status: StatusFailed, Error: err.Error()}
		}
		req.Header.Set("apikey", r.cfg.APIKey)
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
		start := time.Now()
		resp, err := r.client.Do(req)
		elapsed := time.Since(start)
		if err != nil {
			return ConnectivityResult{Status: StatusFailed, ResponseTime: elapsed.String(), Error: err.Error()}
		}
		resp.Body.Close()
		status := StatusConnected
		if resp.StatusCode >= 400 {
			status = StatusFailed
		}
		return ConnectivityResult{Status: status, StatusCode: resp.StatusCode, ResponseTime: elapsed.String()}
	}

	elapsed, err := r.st.Ping(ctx)
	if err != nil {
		return ConnectivityResult{Status: StatusFailed, ResponseTime: elapsed.String(), Error: err.Error()}
	}
	return ConnectivityResult{Status: StatusConnected, ResponseTime: elapsed.String()}
}

// testAuthentication inspects the invoking session's token without any
// network round trip.
func (r *Runner) testAuthentication() AuthResult {
	if r.cfg.Token == "" {
		return AuthResult{Status: StatusAnonymous}
	}
	tok, err := jwt.Parse(r.cfg.Token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(r.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthResult{Status: StatusNoSession, Error: "session expired"}
		}
		return AuthResult{Status: StatusFailed, Error: err.Error()}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return AuthResult{Status: StatusFailed, Error: "invalid claims"}
	}
	res := AuthResult{Status: StatusAuthenticated}
	if sub, _ := claims["sub"].(string); sub != "" {
		res.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		res.Expires = exp.Unix()
	}
	return res
}

// testPermissions probes read and write access per content table. The
// write probe is a deliberate dry run: an empty insert that the store
// rejects for missing required fields. That rejection still counts as
// write permission; only an authorization failure does not.
func (r *Runner) testPermissions(ctx context.Context) map[string]TablePermissions {
	out := make(map[string]TablePermissions)
	for _, table := range store.ContentTables() {
		var p TablePermissions

		_, selErr := r.st.Select(ctx, table, nil, store.IncludeInactive(), store.Limit(1))
		p.Select = selErr == nil
		if selErr != nil {
			p.SelectError = selErr.Error()
		}

		_, insErr := r.st.Insert(ctx, table, store.Row{})
		switch {
		case insErr == nil:
			p.Insert = true
		case store.KindOf(insErr) == store.KindValidation:
			// permission granted, data invalid
			p.Insert = true
			p.InsertError = insErr.Error()
		default:
			p.InsertError = insErr.Error()
		}
		out[table] = p
	}
	return out
}

// testPerformance times two representative operations.
func (r *Runner) testPerformance(ctx context.Context) []PerformanceResult {
	var tests []PerformanceResult

	start := time.Now()
	_, err := r.st.Count(ctx, store.TablePrograms)
	res := PerformanceResult{Test: "count_query", TimeMS: time.Since(start).Milliseconds(), Status: StatusSuccess}
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
	}
	tests = append(tests, res)

	start = time.Now()
	_, err = r.st.Select(ctx, store.TablePrograms, nil, store.Limit(5))
	res = PerformanceResult{Test: "data_query", TimeMS: time.Since(start).Milliseconds(), Status: StatusSuccess}
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
	}
	return append(tests, res)
}

// validateSchema fetches one row per table and diffs its field set against
// the registry's expected columns.
func (r *Runner) validateSchema(ctx context.Context) map[string]SchemaResult {
	out := make(map[string]SchemaResult)
	for _, table := range store.ContentTables() {
		expected := store.ExpectedColumns(table)
		rows, err := r.st.Select(ctx, table, nil, store.IncludeInactive(), store.Limit(1))
		if err != nil {
			status := StatusFailed
			if store.KindOf(err) == store.KindUnknown {
				status = StatusError
			}
			out[table] = SchemaResult{Status: status, Expected: expected, Error: err.Error()}
			continue
		}
		var actual []string
		if len(rows) > 0 {
			for col := range rows[0] {
				actual = append(actual, col)
			}
		}
		present := make(map[string]bool, len(actual))
		for _, col := range actual {
			present[col] = true
		}
		var missing []string
		for _, col := range expected {
			if !present[col] {
				missing = append(missing, col)
			}
		}
		status := StatusValid
		if len(missing) > 0 {
			status = StatusIncomplete
		}
		out[table] = SchemaResult{Status: status, Expected: expected, Actual: actual, Missing: missing}
	}
	return out
}
