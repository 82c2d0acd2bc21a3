package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ecoRouteClient/internal/config"
)

func TestSetup_NoneIsNoop(t *testing.T) {
	tp, shutdown, err := Setup(context.Background(), config.TelemetryConfig{Exporter: config.ExporterNone}, nil)
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_Stdout(t *testing.T) {
	tp, shutdown, err := Setup(context.Background(), config.TelemetryConfig{
		Exporter:    config.ExporterStdout,
		ServiceName: "test",
	}, nil)
	require.NoError(t, err)
	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_UnknownExporter(t *testing.T) {
	_, _, err := Setup(context.Background(), config.TelemetryConfig{Exporter: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

func TestNewHTTPClient_RecordsClientSpans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("traceparent"), "trace context should be propagated")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	// otelhttp injects using the global propagator, which Setup installs in production.
	restore := installPropagator()
	defer restore()

	client := NewHTTPClient(tp, 5*time.Second)
	resp, err := client.Get(srv.URL + "/catalog")
	require.NoError(t, err)
	resp.Body.Close()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /catalog", spans[0].Name())
}
