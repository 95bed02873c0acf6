package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_InstallsSDKProvider(t *testing.T) {
	// A non-routable endpoint: the batch exporter is async, so the SDK
	// still initializes.
	shutdown, err := InitTracer(context.Background(), Config{
		ServiceName:    "storefront-test",
		ServiceVersion: "0.1.0",
		Environment:    "test",
		OTLPEndpoint:   "127.0.0.1:0",
		SampleRate:     1.0,
		Enabled:        true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "global tracer provider should be the SDK provider")

	// Spans created through the global provider now record.
	_, span := otel.Tracer("storefront-test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
}

func TestInitTracer_SampleRates(t *testing.T) {
	for _, rate := range []float64{0.0, 0.5} {
		shutdown, err := InitTracer(context.Background(), Config{
			ServiceName:  "storefront-test",
			OTLPEndpoint: "127.0.0.1:0",
			SampleRate:   rate,
			Enabled:      true,
		})
		require.NoError(t, err)
		_ = shutdown(context.Background())
	}
}
