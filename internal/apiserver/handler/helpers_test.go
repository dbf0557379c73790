package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/sdctrack/internal/apiserver/middleware"
	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/amoylab/sdctrack/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	cols   *store.Collections
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Fixed accounts besides the seeded super admin
var (
	levelTwo      = entity.User{ID: "u-l2", Username: "admin_user", Password: "pw-l2", Role: entity.RoleLevel2}
	otherLevelTwo = entity.User{ID: "u-l2b", Username: "jane.doe", Password: "pw-l2b", Role: entity.RoleLevel2}
	levelOne      = entity.User{ID: "u-l1", Username: "normal_user", Password: "pw-l1", Role: entity.RoleLevel1}
	otherLevelOne = entity.User{ID: "u-l1b", Username: "john.smith", Password: "pw-l1b", Role: entity.RoleLevel1}
)

func newTestServer(t *testing.T, enforce bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.APIServerConfig{Authz: config.AuthzConfig{Enforce: &enforce}}
	cfg.SetDefaults()

	cols := store.NewCollections(store.NewMemoryBackend(), zap.NewNop(), nil)
	ctx := context.Background()
	_, err := cols.SeedAll(ctx)
	require.NoError(t, err)
	for _, u := range []entity.User{levelTwo, otherLevelTwo, levelOne, otherLevelOne} {
		require.NoError(t, cols.Users.Put(ctx, u))
	}

	tr, err := i18n.NewTranslator("en")
	require.NoError(t, err)

	engine := NewRouter(RouterOptions{
		Config:      cfg,
		Collections: cols,
		Translator:  tr,
		Logger:      zap.NewNop(),
	})
	return &testServer{t: t, engine: engine, cols: cols}
}

func (s *testServer) do(method, path, userID string, body any) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type itemList[T any] struct {
	Items []T `json:"items"`
}
