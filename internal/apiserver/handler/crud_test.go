package handler

import (
	"net/http"
	"testing"

	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRUD_CreateThenGet(t *testing.T) {
	s := newTestServer(t, true)

	code, env := s.do(http.MethodPost, "/api/sponsors", levelTwo.ID, map[string]string{
		"id":            "client-chosen",
		"name":          "Acme Trials",
		"contactPerson": "Jo Smith",
		"email":         "jo@acme.io",
	})
	require.Equal(t, http.StatusOK, code, env.Error)
	created := decode[entity.Sponsor](t, env.Data)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.Equal(t, "Inactive", created.Status)

	code, env = s.do(http.MethodGet, "/api/sponsors/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created, decode[entity.Sponsor](t, env.Data))

	code, env = s.do(http.MethodGet, "/api/sponsors", "", nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[itemList[entity.Sponsor]](t, env.Data)
	require.Len(t, list.Items, 5)
	assert.Equal(t, created.ID, list.Items[4].ID)
}

func TestCRUD_AllReferenceTypes(t *testing.T) {
	s := newTestServer(t, true)

	bodies := map[string]map[string]string{
		"centers":        {"name": "North Clinic", "location": "Boston, MA", "primaryContact": "Dr. Kim"},
		"researchers":    {"name": "Dr. Lee", "specialty": "Oncology", "centerId": "ctr-001", "email": "lee@drc.org"},
		"project-codes":  {"code": "ONC-9", "description": "New trial arm", "sponsorId": "sp-001"},
		"work-performed": {"name": "Consent", "description": "Collect consent forms"},
	}
	for path, body := range bodies {
		code, env := s.do(http.MethodPost, "/api/"+path, levelTwo.ID, body)
		require.Equal(t, http.StatusOK, code, "%s: %s", path, env.Error)

		id := decode[map[string]any](t, env.Data)["id"].(string)
		code, got := s.do(http.MethodGet, "/api/"+path+"/"+id, "", nil)
		require.Equal(t, http.StatusOK, code, path)
		assert.JSONEq(t, string(env.Data), string(got.Data), path)
	}
}

func TestCRUD_PatchKeepsOtherFields(t *testing.T) {
	s := newTestServer(t, true)

	code, env := s.do(http.MethodPut, "/api/project-codes/pc-001", levelTwo.ID, map[string]string{
		"id":     "pc-999",
		"status": "Completed",
	})
	require.Equal(t, http.StatusOK, code, env.Error)
	pc := decode[entity.ProjectCode](t, env.Data)
	assert.Equal(t, entity.ProjectCode{
		ID:          "pc-001",
		Code:        "ONC-2024-01",
		Description: "Phase III Oncology Trial",
		SponsorID:   "sp-001",
		Status:      "Completed",
	}, pc)

	code, _ = s.do(http.MethodGet, "/api/project-codes/pc-999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCRUD_NotFound(t *testing.T) {
	s := newTestServer(t, true)

	code, env := s.do(http.MethodGet, "/api/centers/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Entity not found.", env.Error)

	code, _ = s.do(http.MethodPut, "/api/centers/nope", levelTwo.ID, map[string]string{"name": "X Y"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodDelete, "/api/centers/nope", levelTwo.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodDelete, "/api/centers/ctr-003", levelTwo.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":"ctr-003","deleted":true}`, string(env.Data))

	code, _ = s.do(http.MethodDelete, "/api/centers/ctr-003", levelTwo.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCRUD_Validation(t *testing.T) {
	s := newTestServer(t, true)

	code, env := s.do(http.MethodPost, "/api/sponsors", levelTwo.ID, `{"name":"Acme"`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body.", env.Error)

	code, env = s.do(http.MethodPost, "/api/sponsors", levelTwo.ID, map[string]string{
		"name": "Acme", "contactPerson": "Jo Smith", "email": "jo@acme.io", "status": "Dormant",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid value for field status.", env.Error)

	code, _ = s.do(http.MethodPost, "/api/work-performed", levelTwo.ID, map[string]string{"name": "X", "description": "Long enough"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPut, "/api/researchers/res-001", levelTwo.ID, map[string]any{"email": 7})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPut, "/api/researchers/res-001", levelTwo.ID, `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, code)

	// nothing was stored by the failed attempts
	code, env = s.do(http.MethodGet, "/api/sponsors", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[itemList[entity.Sponsor]](t, env.Data).Items, 4)
}

func TestCRUD_Authorization(t *testing.T) {
	s := newTestServer(t, true)
	body := map[string]string{"name": "Acme", "contactPerson": "Jo Smith", "email": "jo@acme.io"}

	code, _ := s.do(http.MethodPost, "/api/sponsors", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := s.do(http.MethodPost, "/api/sponsors", levelOne.ID, body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You do not have permission to perform this action.", env.Error)

	code, _ = s.do(http.MethodPut, "/api/sponsors/sp-001", levelOne.ID, map[string]string{"status": "Inactive"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodDelete, "/api/sponsors/sp-001", levelOne.ID, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// reads are open
	code, _ = s.do(http.MethodGet, "/api/sponsors/sp-001", levelOne.ID, nil)
	assert.Equal(t, http.StatusOK, code)

	open := newTestServer(t, false)
	code, _ = open.do(http.MethodPost, "/api/sponsors", "", body)
	assert.Equal(t, http.StatusOK, code)
}
