package injector

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/autolink/internal/core/autolink"
	"github.com/zeusync/autolink/internal/core/events/bus"
	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

func TestInitializeRuntime(t *testing.T) {
	cfg := autolink.DefaultConfig()
	cfg.LogLevel = "silent"
	rt, err := InitializeRuntime(cfg)
	require.NoError(t, err)
	require.NotNil(t, rt.Engine)
	require.NotNil(t, rt.World)
	assert.Equal(t, cfg, rt.Engine.Config())

	require.NoError(t, rt.System.Initialize(context.Background()))
	assert.NoError(t, rt.Close(context.Background()))

	// Each runtime owns its registry, so a second one registers cleanly.
	_, err = InitializeRuntime(cfg)
	assert.NoError(t, err)
}

func TestInitializeRuntimeRejectsBadLogLevel(t *testing.T) {
	cfg := autolink.DefaultConfig()
	cfg.LogLevel = "chatty"
	_, err := InitializeRuntime(cfg)
	assert.Error(t, err)
}

func TestRuntimeBusIsInstrumented(t *testing.T) {
	cfg := autolink.DefaultConfig()
	cfg.LogLevel = "silent"
	rt, err := InitializeRuntime(cfg)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, rt.System.Initialize(ctx))
	defer func() { _ = rt.Close(ctx) }()

	b := models.NewBuildable(1, "machine", models.KindMachine, physics.NewTransform(mgl64.Vec3{}, 0))
	require.NoError(t, rt.World.Add(b))
	require.NoError(t, rt.Bus.Publish(ctx, autolink.BuildableConstructed("test", b)))
	assert.Error(t, rt.Bus.Publish(ctx, bus.NewEvent(autolink.EventBuildableConstructed, "test", "not a buildable", nil)))

	assert.Equal(t, 2.0, testutil.ToFloat64(rt.Metrics.BusEvents.WithLabelValues(autolink.EventBuildableConstructed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rt.Metrics.BusFailures.WithLabelValues(autolink.EventBuildableConstructed)))
	m := rt.Bus.GetMetrics()
	assert.EqualValues(t, 2, m.Published)
	assert.EqualValues(t, 1, m.Errors)
}
