package observability

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append(e.records, records...)
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func TestLoggerFromContext_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithOutput(&buf, "doctor-directory", "production")

	provider := sdktrace.NewTracerProvider()
	defer provider.Shutdown(context.Background())
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	LoggerFromContext(ctx).Info().Msg("traced")

	out := buf.String()
	assert.Contains(t, out, `"service":"doctor-directory"`)
	assert.Contains(t, out, span.SpanContext().TraceID().String())
	assert.Contains(t, out, `"message":"traced"`)
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithOutput(&buf, "doctor-directory", "production")

	LoggerFromContext(context.Background()).Warn().Msg("plain")

	assert.NotContains(t, buf.String(), "trace_id")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestAttachLogExport(t *testing.T) {
	InitLoggerWithOutput(io.Discard, "doctor-directory", "production")
	exporter := &memoryExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	defer provider.Shutdown(context.Background())

	attachLogExport(provider.Logger("test"))
	log.Error().Msg("fetch failed")
	log.Log().Msg("unleveled")

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.records, 1)
	assert.Equal(t, "fetch failed", exporter.records[0].Body().AsString())
	assert.Equal(t, otellog.SeverityError, exporter.records[0].Severity())
	assert.Equal(t, "error", exporter.records[0].SeverityText())
}

func TestRecorders_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/api/doctors", 200, time.Millisecond)
		RecordDirectoryLoad(ctx, nil, "ready", 3, time.Millisecond)
		RecordCacheHit(ctx, nil, "/api/doctors")
		RecordCacheMiss(ctx, nil, "/api/doctors")
	})
}

func TestInitMetrics(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, metrics, "GET", "/api/doctors", 200, time.Millisecond)
		RecordDirectoryLoad(ctx, metrics, "failed", 0, time.Second)
		RecordCacheHit(ctx, metrics, "/api/specialties")
	})
}
