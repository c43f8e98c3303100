// Package tracing 提供 OpenTelemetry 分布式追踪单元测试
package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/resource"
)

func TestInit_Disabled(t *testing.T) {
	tracer, err := Init(&Config{ServiceName: "disabled", Enabled: false})
	require.NoError(t, err)
	assert.False(t, tracer.Enabled())

	ctx, span := tracer.Start(context.Background(), "op", WithUserID("u-1"))
	assert.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestInit_Default(t *testing.T) {
	tracer, err := Init(nil)
	require.NoError(t, err)
	assert.Equal(t, "shopping-app-backend", tracer.config.ServiceName)
	assert.False(t, tracer.Enabled())
}

func TestInit_StdoutExporter(t *testing.T) {
	tracer, err := Init(&Config{ServiceName: "test-service", SampleRate: 1.0, Enabled: true})
	require.NoError(t, err)
	require.True(t, tracer.Enabled())
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	ctx, span := tracer.Start(context.Background(), "order.create", WithOrderNumber("ORD1"), WithCollection("orders"))
	assert.True(t, span.IsRecording())
	SetError(ctx, errors.New("boom"))
	span.End()
}

func TestNewResource_MergesWithDefault(t *testing.T) {
	res, err := newResource(&Config{ServiceName: "shop", ServiceVersion: "1.0.0", Environment: "test"})
	require.NoError(t, err)
	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

	name, ok := res.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "shop", name.AsString())
}

func TestSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", sampler(1).Description())
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}
