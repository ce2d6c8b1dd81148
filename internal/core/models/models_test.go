package models

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/autolink/internal/core/systems/physics"
)

func newBelt(id EntityID, at mgl64.Vec3) (*Buildable, *BeltConnector, *BeltConnector) {
	b := NewBuildable(id, "belt", KindConveyorBelt, physics.NewTransform(at, 0))
	in := NewBeltConnector(b, Placement{Name: "in", Normal: mgl64.Vec3{-1, 0, 0}, Slot: SlotConnection0}, BeltInput, 0)
	out := NewBeltConnector(b, Placement{Name: "out", Location: mgl64.Vec3{100, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Slot: SlotConnection1}, BeltOutput, 0)
	return b, in, out
}

func TestKindNamesRoundTrip(t *testing.T) {
	for k := KindOther; k <= KindPowerPole; k++ {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("reactor")
	assert.False(t, ok)
	assert.True(t, KindConveyorLift.IsConveyor())
	assert.False(t, KindPipe.IsConveyor())
}

func TestConnectorWorldSpace(t *testing.T) {
	b := NewBuildable(1, "m", KindMachine, physics.NewTransform(mgl64.Vec3{10, 0, 0}, 90))
	c := NewBeltConnector(b, Placement{Name: "out", Location: mgl64.Vec3{5, 0, 0}, Normal: mgl64.Vec3{2, 0, 0}}, BeltOutput, 0)

	loc := c.Location()
	assert.InDelta(t, 10, loc.X(), 1e-9)
	assert.InDelta(t, 5, loc.Y(), 1e-9)
	n := c.Normal()
	assert.InDelta(t, 0, n.X(), 1e-9)
	assert.InDelta(t, 1, n.Y(), 1e-9)
	assert.Equal(t, FamilyBelt, c.Family())
	assert.Same(t, b, c.Owner())
}

func TestSlotsAndComponents(t *testing.T) {
	b, in, out := newBelt(1, mgl64.Vec3{})
	assert.Same(t, in, b.Connection(SlotConnection0))
	assert.Same(t, out, b.Connection(SlotConnection1))
	assert.Nil(t, b.Connection(SlotNone))
	assert.Len(t, b.Components(), 2)
}

func TestBeltSetConnectionIsSymmetric(t *testing.T) {
	_, _, outA := newBelt(1, mgl64.Vec3{})
	_, inB, _ := newBelt(2, mgl64.Vec3{100, 0, 0})
	_, inC, _ := newBelt(3, mgl64.Vec3{200, 0, 0})

	outA.SetConnection(inB)
	assert.Same(t, inB, outA.Connection())
	assert.Same(t, outA, inB.Connection())

	// Relinking releases the old partner.
	outA.SetConnection(inC)
	assert.Nil(t, inB.Connection())
	assert.Same(t, outA, inC.Connection())

	outA.SetConnection(nil)
	assert.False(t, outA.IsConnected())
}

func TestBeltCanConnectTo(t *testing.T) {
	_, inA, outA := newBelt(1, mgl64.Vec3{})
	_, inB, outB := newBelt(2, mgl64.Vec3{100, 0, 0})

	assert.True(t, outA.CanConnectTo(inB))
	assert.True(t, inA.CanConnectTo(outB))
	assert.False(t, inA.CanConnectTo(inB))
	assert.False(t, outA.CanConnectTo(outB))
	assert.False(t, outA.CanConnectTo(nil))

	outA.SetTier(2)
	inB.SetTier(3)
	assert.False(t, outA.CanConnectTo(inB))
	inB.SetTier(0)
	assert.True(t, outA.CanConnectTo(inB))
}

func TestDestroyInvalidatesConnectors(t *testing.T) {
	b, in, _ := newBelt(1, mgl64.Vec3{})
	assert.True(t, in.IsValid())
	b.Destroy()
	assert.False(t, in.IsValid())
	assert.True(t, b.IsDestroyed())

	var nilConn *BeltConnector
	assert.False(t, nilConn.IsValid())
	var nilB *Buildable
	assert.True(t, nilB.IsDestroyed())
}

func TestTrackAddConnectionIdempotent(t *testing.T) {
	a := NewBuildable(1, "ta", KindTrack, physics.NewTransform(mgl64.Vec3{}, 0))
	b := NewBuildable(2, "tb", KindTrack, physics.NewTransform(mgl64.Vec3{}, 0))
	ca := NewTrackConnector(a, Placement{Slot: SlotConnection0, Normal: mgl64.Vec3{1, 0, 0}})
	cb := NewTrackConnector(b, Placement{Slot: SlotConnection0, Normal: mgl64.Vec3{-1, 0, 0}})

	ca.AddConnection(cb)
	ca.AddConnection(cb)
	cb.AddConnection(ca)
	ca.AddConnection(ca)

	assert.Len(t, ca.Connections(), 1)
	assert.Len(t, cb.Connections(), 1)
	assert.True(t, ca.IsConnectedTo(cb))
	assert.True(t, cb.IsConnectedTo(ca))
}

func TestPipeTypeCompatibility(t *testing.T) {
	cases := []struct {
		a, b PipeType
		ok   bool
	}{
		{PipeConsumer, PipeProducer, true},
		{PipeConsumer, PipeConsumer, false},
		{PipeAny, PipeConsumer, true},
		{PipeAny, PipeAny, true},
		{PipeAttachment, PipeAny, false},
		{PipeNone, PipeProducer, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, pipeTypesCompatible(tc.a, tc.b), "%s/%s", tc.a, tc.b)
	}
}

func TestFluidBindIntegrantOnce(t *testing.T) {
	b := NewBuildable(1, "pipe", KindPipe, physics.NewTransform(mgl64.Vec3{}, 0))
	own := b.EnableIntegrant()
	assert.Same(t, own, b.EnableIntegrant())

	c := NewFluidConnector(b, Placement{Slot: SlotConnection0, Normal: mgl64.Vec3{1, 0, 0}}, PipeAny)
	own.AddConnector(c)
	own.AddConnector(c)
	assert.Len(t, own.Connectors(), 1)

	assert.True(t, c.BindIntegrant(own))
	other := NewFluidIntegrant(b, "tank")
	assert.False(t, c.BindIntegrant(other))
	assert.Same(t, own, c.Integrant())
	assert.NotEqual(t, own.ID(), other.ID())
}

func TestLiftStateOnlyOnLifts(t *testing.T) {
	lift := NewBuildable(1, "lift", KindConveyorLift, physics.NewTransform(mgl64.Vec3{}, 0))
	belt := NewBuildable(2, "belt", KindConveyorBelt, physics.NewTransform(mgl64.Vec3{}, 0))
	require.NotNil(t, lift.Lift())
	assert.Nil(t, belt.Lift())
}
