package i18n

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func serve(t *testing.T, r *Responder, lang string, h func(c *gin.Context)) (int, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(LanguageMiddleware("en"))
	engine.GET("/", h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if lang != "" {
		req.Header.Set(HeaderLang, lang)
	}
	engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestResponder_OK(t *testing.T) {
	r := NewResponder(nil, "en", zap.NewNop())
	code, env := serve(t, r, "", func(c *gin.Context) { r.OK(c, gin.H{"count": 3}) })
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"count":3}`, string(env.Data))
}

func TestResponder_Error(t *testing.T) {
	tr, err := NewTranslator("en")
	require.NoError(t, err)
	r := NewResponder(tr, "en", zap.NewNop())

	code, env := serve(t, r, "", func(c *gin.Context) { r.Error(c, errorx.ErrUserNotFound) })
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Equal(t, "User not found.", env.Error)

	code, env = serve(t, r, "zh", func(c *gin.Context) { r.Error(c, errorx.ErrSuperAdminDelete) })
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "超级管理员不能被删除。", env.Error)

	code, env = serve(t, r, "", func(c *gin.Context) { r.Error(c, errors.New("disk on fire")) })
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error.", env.Error)
}

func TestResponder_FallsBackToDefaultMessage(t *testing.T) {
	r := NewResponder(nil, "en", zap.NewNop())
	_, env := serve(t, r, "zh", func(c *gin.Context) {
		r.Error(c, errorx.ErrInvalidField.WithParam("Field", "email"))
	})
	assert.Equal(t, "Invalid value for field email.", env.Error)
}
