package trace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), &config.TracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_HTTP(t *testing.T) {
	// the http exporter connects lazily, so no collector is needed
	cfg := &config.TracingConfig{
		Enabled:     true,
		ServiceName: "sdctrack-test",
		Protocol:    "http",
		Insecure:    true,
		SamplerRate: 2.5,
		Headers:     map[string]string{"x-test": "1"},
	}
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_UnknownProtocol(t *testing.T) {
	_, err := InitTracing(context.Background(), &config.TracingConfig{Enabled: true, Protocol: "carrier-pigeon"}, zap.NewNop())
	assert.Error(t, err)
}

func TestClampRate(t *testing.T) {
	assert.Equal(t, 0.0, clampRate(-1))
	assert.Equal(t, 0.5, clampRate(0.5))
	assert.Equal(t, 1.0, clampRate(3))
}

func TestBuilder_SpanScope(t *testing.T) {
	sr := withRecorder(t)

	scope := Tracer("test").Start(context.Background(), "store.get").
		WithAttrs(StoreAttrs("sponsors", "sponsors", "get")...)
	assert.NotEmpty(t, TraceID(scope.Ctx))
	scope.EndWith(errors.New("boom"))

	ok := Tracer("test").Start(context.Background(), "store.count")
	ok.EndWith(nil)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "store.get", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), AttrCollection.String("sponsors"))
	assert.Contains(t, spans[0].Attributes(), AttrOperation.String("get"))
	assert.Len(t, spans[0].Events(), 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)

	var nilScope *SpanScope
	assert.NotPanics(t, func() { nilScope.WithAttrs().EndWith(nil) })
}

func TestAnnotateCaller(t *testing.T) {
	sr := withRecorder(t)

	scope := Tracer("test").Start(context.Background(), "GET /api/users")
	AnnotateCaller(scope.Ctx, "user-002", "Level 2")
	scope.EndWith(nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("sdctrack.caller.id", "user-002"))
	assert.Contains(t, spans[0].Attributes(), AttrCallerRole.String("Level 2"))

	assert.Empty(t, TraceID(context.Background()))
	assert.NotPanics(t, func() { AnnotateCaller(context.Background(), "x", "y") })
}

func TestMiddleware(t *testing.T) {
	sr := withRecorder(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware("sdctrack-test"))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, sr.Ended())
}
