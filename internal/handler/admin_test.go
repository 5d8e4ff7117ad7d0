package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/repository"
	"github.com/rrijambi/station-backend/internal/store"
)

type adminFixture struct {
	handler *AdminHandler
	echo    *echo.Echo
}

func newAdminFixture(t *testing.T) adminFixture {
	t.Helper()
	st := store.NewMem()
	h := NewAdminHandler(
		repository.NewScheduleRepo(st),
		repository.NewMemberRepo(st),
		repository.NewEventRepo(st),
		repository.NewProgramRepo(st),
	)
	return adminFixture{handler: h, echo: echo.New()}
}

func (f adminFixture) request(t *testing.T, method, path, body string, fn echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	require.NoError(t, fn(c))
	return rec
}

func TestAdminScheduleCRUD(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.request(t, http.MethodPost, "/v1/admin/schedules",
		`{"waktu":"06:00","program_name":"Pro 1","penyiar":"Budi"}`, f.handler.CreateSchedule)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Schedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = f.request(t, http.MethodPut, "/v1/admin/schedules/"+created.ID,
		`{"penyiar":"Sari"}`, f.handler.UpdateSchedule, "id", created.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Schedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Sari", updated.Penyiar)

	rec = f.request(t, http.MethodDelete, "/v1/admin/schedules/"+created.ID,
		"", f.handler.DeleteSchedule, "id", created.ID)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// the soft deleted slot is still visible on the admin listing
	rec = f.request(t, http.MethodGet, "/v1/admin/schedules", "", f.handler.ListSchedules)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing map[string][]model.Schedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing["items"], 1)
	assert.False(t, listing["items"][0].IsActive)
}

func TestAdminCreateValidation(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.request(t, http.MethodPost, "/v1/admin/schedules",
		`{"penyiar":"Budi"}`, f.handler.CreateSchedule)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodPost, "/v1/admin/events",
		`{"title":"HUT RRI"}`, f.handler.CreateEvent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodPost, "/v1/admin/programs",
		`{"name":"Pro 1"}`, f.handler.CreateProgram)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminErrorStatusMapping(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.request(t, http.MethodPut, "/v1/admin/schedules/missing",
		`{"penyiar":"Sari"}`, f.handler.UpdateSchedule, "id", "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.request(t, http.MethodDelete, "/v1/admin/events/missing",
		"", f.handler.DeleteEvent, "id", "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHardDeleteOverride(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.request(t, http.MethodPost, "/v1/admin/organization-members",
		`{"name":"Citra","position":"Kepala","order_index":1}`, f.handler.CreateMember)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.OrganizationMember
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.request(t, http.MethodDelete, "/v1/admin/organization-members/"+created.ID+"?hard=true",
		"", f.handler.DeleteMember, "id", created.ID)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.request(t, http.MethodGet, "/v1/admin/organization-members", "", f.handler.ListMembers)
	var listing map[string][]model.OrganizationMember
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing["items"])
}
