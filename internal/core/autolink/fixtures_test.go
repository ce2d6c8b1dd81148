package autolink

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/observability/metrics"
	"github.com/zeusync/autolink/internal/core/systems/physics"
	"github.com/zeusync/autolink/internal/core/world"
)

var (
	east = mgl64.Vec3{1, 0, 0}
	west = mgl64.Vec3{-1, 0, 0}
)

type harness struct {
	world   *world.World
	engine  *Engine
	metrics *metrics.Collector
}

func newHarness(t *testing.T, tweak ...func(*Config)) *harness {
	t.Helper()
	cfg := DefaultConfig()
	for _, fn := range tweak {
		fn(&cfg)
	}
	require.NoError(t, cfg.Validate())

	col, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	w := world.New(cfg.World)
	linker := NewLinker(w.Conveyors(), w.Fluids(), w.Tracks())
	return &harness{
		world:   w,
		engine:  NewEngine(cfg, w, linker, WithMetrics(col)),
		metrics: col,
	}
}

func (h *harness) add(t *testing.T, bs ...*models.Buildable) {
	t.Helper()
	for _, b := range bs {
		require.NoError(t, h.world.Add(b))
	}
}

func (h *harness) process(t *testing.T, b *models.Buildable) Report {
	t.Helper()
	r := h.engine.ProcessBuildable(context.Background(), b)
	assertSymmetric(t, r)
	for _, l := range r.Links {
		assert.Same(t, b, l.From.Owner(), "links always start on the processed buildable")
		assert.NotSame(t, l.From.Owner(), l.To.Owner(), "self link")
	}
	return r
}

func assertSymmetric(t *testing.T, r Report) {
	t.Helper()
	for _, l := range r.Links {
		switch from := l.From.(type) {
		case *models.BeltConnector:
			to := l.To.(*models.BeltConnector)
			assert.Same(t, to, from.Connection())
			assert.Same(t, from, to.Connection())
		case *models.TrackConnector:
			to := l.To.(*models.TrackConnector)
			assert.True(t, from.IsConnectedTo(to))
			assert.True(t, to.IsConnectedTo(from))
		case *models.FluidConnector:
			to := l.To.(*models.FluidConnector)
			assert.Same(t, to, from.Connection())
			assert.Same(t, from, to.Connection())
			assert.LessOrEqual(t, physics.DistanceSq(from.Location(), to.Location()), 1.0)
		case *models.HyperConnector:
			to := l.To.(*models.HyperConnector)
			assert.Same(t, to, from.Connection())
			assert.Same(t, from, to.Connection())
			assert.LessOrEqual(t, physics.DistanceSq(from.Location(), to.Location()), 1.0)
		}
	}
}

func at(x, y, z float64) physics.Transform {
	return physics.NewTransform(mgl64.Vec3{x, y, z}, 0)
}

func place(name string, loc, normal mgl64.Vec3, slot models.Slot) models.Placement {
	return models.Placement{Name: name, Location: loc, Normal: normal, Slot: slot}
}

// belt runs 100 units east from x.
func belt(id models.EntityID, x float64) *models.Buildable {
	b := models.NewBuildable(id, "belt", models.KindConveyorBelt, at(x, 0, 0))
	models.NewBeltConnector(b, place("in", mgl64.Vec3{}, west, models.SlotConnection0), models.BeltInput, 0)
	models.NewBeltConnector(b, place("out", mgl64.Vec3{100, 0, 0}, east, models.SlotConnection1), models.BeltOutput, 0)
	return b
}

func beltIn(b *models.Buildable) *models.BeltConnector {
	return b.Connection(models.SlotConnection0).(*models.BeltConnector)
}

func beltOut(b *models.Buildable) *models.BeltConnector {
	return b.Connection(models.SlotConnection1).(*models.BeltConnector)
}

// liftDown takes items in at the top and puts them out at ground level,
// facing east. ext is the latched opposing clearance per slot.
func liftDown(id models.EntityID, x, clearance float64, ext [2]float64) *models.Buildable {
	b := models.NewBuildable(id, "lift", models.KindConveyorLift, at(x, 0, 0))
	b.Lift().OpposingClearance = ext
	models.NewBeltConnector(b, place("in", mgl64.Vec3{0, 0, 400}, west, models.SlotConnection0), models.BeltInput, clearance)
	models.NewBeltConnector(b, place("out", mgl64.Vec3{}, east, models.SlotConnection1), models.BeltOutput, clearance)
	return b
}

// liftUp takes items in at ground level, facing west.
func liftUp(id models.EntityID, x, clearance float64, ext [2]float64) *models.Buildable {
	b := models.NewBuildable(id, "lift", models.KindConveyorLift, at(x, 0, 0))
	b.Lift().OpposingClearance = ext
	models.NewBeltConnector(b, place("in", mgl64.Vec3{}, west, models.SlotConnection0), models.BeltInput, clearance)
	models.NewBeltConnector(b, place("out", mgl64.Vec3{0, 0, 400}, east, models.SlotConnection1), models.BeltOutput, clearance)
	return b
}

func machine(id models.EntityID, x float64) *models.Buildable {
	return models.NewBuildable(id, "machine", models.KindMachine, at(x, 0, 0))
}

func port(b *models.Buildable, name string, normal mgl64.Vec3, dir models.BeltDirection) *models.BeltConnector {
	return models.NewBeltConnector(b, place(name, mgl64.Vec3{}, normal, models.SlotNone), dir, 0)
}

func track(id models.EntityID, loc, normal mgl64.Vec3) (*models.Buildable, *models.TrackConnector) {
	b := models.NewBuildable(id, "track", models.KindTrack, physics.NewTransform(loc, 0))
	return b, models.NewTrackConnector(b, place("end", mgl64.Vec3{}, normal, models.SlotConnection0))
}

// pipe runs 100 units east from x and is its own integrant.
func pipe(id models.EntityID, kind models.Kind, x float64, typ models.PipeType) *models.Buildable {
	b := models.NewBuildable(id, "pipe", kind, at(x, 0, 0))
	fi := b.EnableIntegrant()
	fi.AddConnector(models.NewFluidConnector(b, place("a", mgl64.Vec3{}, west, models.SlotConnection0), typ))
	fi.AddConnector(models.NewFluidConnector(b, place("b", mgl64.Vec3{100, 0, 0}, east, models.SlotConnection1), typ))
	return b
}

// barePipe is a pipe whose connectors sit in their slots but which has no
// integrant of its own.
func barePipe(id models.EntityID, x float64) *models.Buildable {
	b := models.NewBuildable(id, "pipe", models.KindPipe, at(x, 0, 0))
	models.NewFluidConnector(b, place("a", mgl64.Vec3{}, west, models.SlotConnection0), models.PipeAny)
	models.NewFluidConnector(b, place("b", mgl64.Vec3{100, 0, 0}, east, models.SlotConnection1), models.PipeAny)
	return b
}

func fluidSlot(b *models.Buildable, slot models.Slot) *models.FluidConnector {
	return b.Connection(slot).(*models.FluidConnector)
}

func tube(id models.EntityID, x float64, typ models.PipeType) *models.Buildable {
	b := models.NewBuildable(id, "tube", models.KindHypertube, at(x, 0, 0))
	models.NewHyperConnector(b, place("a", mgl64.Vec3{}, west, models.SlotConnection0), typ)
	models.NewHyperConnector(b, place("b", mgl64.Vec3{100, 0, 0}, east, models.SlotConnection1), typ)
	return b
}

func hyperSlot(b *models.Buildable, slot models.Slot) *models.HyperConnector {
	return b.Connection(slot).(*models.HyperConnector)
}
