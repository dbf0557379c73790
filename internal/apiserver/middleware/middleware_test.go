package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/amoylab/sdctrack/pkg/trace"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeUsers struct {
	users map[string]entity.User
	err   error
	puts  int
}

func (f *fakeUsers) Get(_ context.Context, id string) (entity.User, bool, error) {
	if f.err != nil {
		return entity.User{}, false, f.err
	}
	u, ok := f.users[id]
	return u, ok, nil
}

func (f *fakeUsers) Put(_ context.Context, u entity.User) error {
	f.puts++
	f.users[u.ID] = u
	return nil
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]entity.User{
		"l1": {ID: "l1", Username: "one", Role: entity.RoleLevel1},
		"l2": {ID: "l2", Username: "two", Role: entity.RoleLevel2},
		"l3": {ID: "l3", Username: "three", Role: entity.RoleLevel3},
	}}
}

func performRequest(r *gin.Engine, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", handlers...)
	return r
}

func TestIdentity(t *testing.T) {
	resp := i18n.NewResponder(nil, "en", zap.NewNop())
	users := newFakeUsers()

	var seen string
	r := newEngine(Identity(users, resp), func(c *gin.Context) {
		if u, ok := Caller(c); ok {
			seen = u.ID
		} else {
			seen = "anonymous"
		}
		c.Status(http.StatusNoContent)
	})

	w := performRequest(r, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "anonymous", seen)

	w = performRequest(r, "l2")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "l2", seen)

	w = performRequest(r, "ghost")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown user ghost.")

	users.err = errors.New("backend down")
	w = performRequest(r, "l2")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireLevel(t *testing.T) {
	resp := i18n.NewResponder(nil, "en", zap.NewNop())
	users := newFakeUsers()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	enforced := newEngine(Identity(users, resp), RequireLevel(entity.RoleLevel2, true, resp), ok)
	cases := map[string]int{
		"":   http.StatusUnauthorized,
		"l1": http.StatusForbidden,
		"l2": http.StatusNoContent,
		"l3": http.StatusNoContent,
	}
	for id, want := range cases {
		assert.Equal(t, want, performRequest(enforced, id).Code, "caller %q", id)
	}

	open := newEngine(Identity(users, resp), RequireLevel(entity.RoleLevel3, false, resp), ok)
	assert.Equal(t, http.StatusNoContent, performRequest(open, "").Code)
	assert.Equal(t, http.StatusNoContent, performRequest(open, "l1").Code)
}

func TestSuperAdminGuard(t *testing.T) {
	resp := i18n.NewResponder(nil, "en", zap.NewNop())
	users := newFakeUsers()
	admin := entity.SuperAdmin("MLS", "2008")

	r := newEngine(SuperAdminGuard(users, admin, zap.NewNop(), resp), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	require.Equal(t, http.StatusNoContent, performRequest(r, "").Code)
	assert.Equal(t, admin, users.users[entity.SuperAdminID])
	assert.Equal(t, 1, users.puts)

	// present admin is left alone
	require.Equal(t, http.StatusNoContent, performRequest(r, "").Code)
	assert.Equal(t, 1, users.puts)

	delete(users.users, entity.SuperAdminID)
	require.Equal(t, http.StatusNoContent, performRequest(r, "").Code)
	assert.Equal(t, 2, users.puts)
}

func TestLoggerAndRecovery(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	resp := i18n.NewResponder(nil, "en", logger)

	r := newEngine(Logger(logger), Recovery(logger, resp), func(c *gin.Context) { panic("boom") })
	w := performRequest(r, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())

	reqLogs := logs.FilterMessage("request").All()
	require.Len(t, reqLogs, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), reqLogs[0].ContextMap()["status"])
}

func TestLoggerAndIdentity_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	resp := i18n.NewResponder(nil, "en", logger)

	var traceID string
	withSpan := func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "GET /p")
		traceID = span.SpanContext().TraceID().String()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.End()
	}
	r := newEngine(withSpan, Logger(logger), Identity(newFakeUsers(), resp), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	require.Equal(t, http.StatusNoContent, performRequest(r, "l2").Code)

	reqLogs := logs.FilterMessage("request").All()
	require.Len(t, reqLogs, 1)
	assert.Equal(t, traceID, reqLogs[0].ContextMap()["trace_id"])
	assert.Equal(t, "l2", reqLogs[0].ContextMap()["caller"])

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), trace.AttrCallerID.String("l2"))
	assert.Contains(t, spans[0].Attributes(), trace.AttrCallerRole.String(string(entity.RoleLevel2)))
}
