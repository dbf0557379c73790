package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/amoylab/sdctrack/internal/store"
	"github.com/amoylab/sdctrack/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStats(t *testing.T) {
	s := newTestServer(t, true)

	expected := map[string]int{
		"user-count":           5,
		"sponsor-count":        4,
		"center-count":         3,
		"researcher-count":     4,
		"project-code-count":   4,
		"work-performed-count": 4,
		"sdc-tracking-count":   3,
	}
	for path, want := range expected {
		code, env := s.do(http.MethodGet, "/api/stats/"+path, "", nil)
		require.Equal(t, http.StatusOK, code, path)
		assert.Equal(t, want, decode[map[string]int](t, env.Data)["count"], path)
	}
}

func TestStats_SeedOnFirstAccess(t *testing.T) {
	cfg := &config.APIServerConfig{}
	cfg.SetDefaults()
	cols := store.NewCollections(store.NewMemoryBackend(), zap.NewNop(), nil)
	engine := NewRouter(RouterOptions{Config: cfg, Collections: cols, Logger: zap.NewNop()})
	s := &testServer{t: t, engine: engine, cols: cols}

	code, env := s.do(http.MethodGet, "/api/stats/center-count", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":3}`, string(env.Data))

	// emptied collections stay empty
	_, err := cols.Centers.DeleteMany(context.Background(), []string{"ctr-001", "ctr-002", "ctr-003"})
	require.NoError(t, err)
	_, env = s.do(http.MethodGet, "/api/stats/center-count", "", nil)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))
}

func TestRouter_HealthAndNoRoute(t *testing.T) {
	s := newTestServer(t, true)

	code, _ := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := s.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Not found.", env.Error)
}

func TestRouter_TranslatedErrors(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/user-001", nil)
	req.Header.Set(i18n.HeaderLang, "zh")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "超级管理员不能被删除。")
}

func TestRouter_Metrics(t *testing.T) {
	cfg := &config.APIServerConfig{}
	cfg.SetDefaults()
	m := metrics.New(cfg.Metrics)
	cols := store.NewCollections(store.NewMemoryBackend(), zap.NewNop(), m)
	engine := NewRouter(RouterOptions{Config: cfg, Collections: cols, Metrics: m, Logger: zap.NewNop()})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sponsors", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "sdctrack_store_operations_total"))
	assert.True(t, strings.Contains(body, `route="/api/sponsors"`))
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/sponsors", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-User-ID")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
