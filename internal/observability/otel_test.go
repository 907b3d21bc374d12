package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/yungbote/emission-report/internal/emissions/config"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

func TestInitTracingDisabledInstallsPropagators(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), logger.Nop(), "test", "dev", config.TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestInitTracingStdoutExporter(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), logger.Nop(), "test", "dev", config.TracingConfig{
		Enabled:     true,
		ServiceName: "emission-report-test",
		SampleRatio: 1,
	})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
