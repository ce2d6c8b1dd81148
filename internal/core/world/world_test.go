package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

func belt(id models.EntityID, x float64) *models.Buildable {
	b := models.NewBuildable(id, "belt", models.KindConveyorBelt, physics.NewTransform(mgl64.Vec3{x, 0, 0}, 0))
	models.NewBeltConnector(b, models.Placement{Name: "in", Normal: mgl64.Vec3{-1, 0, 0}, Slot: models.SlotConnection0}, models.BeltInput, 0)
	models.NewBeltConnector(b, models.Placement{Name: "out", Location: mgl64.Vec3{100, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Slot: models.SlotConnection1}, models.BeltOutput, 0)
	return b
}

func beltSlots(b *models.Buildable) (in, out *models.BeltConnector) {
	return beltSlot(b, models.SlotConnection0), beltSlot(b, models.SlotConnection1)
}

func TestAddRejectsNilAndDuplicates(t *testing.T) {
	w := New(DefaultConfig())
	assert.ErrorIs(t, w.Add(nil), ErrNilBuildable)
	require.NoError(t, w.Add(belt(1, 0)))
	assert.ErrorIs(t, w.Add(belt(1, 500)), ErrDuplicateID)

	got, ok := w.Get(1)
	require.True(t, ok)
	assert.Equal(t, models.EntityID(1), got.ID())
	assert.True(t, w.Conveyors().Contains(1))
}

func TestHitScanOrdersByDistanceAndIgnores(t *testing.T) {
	w := New(DefaultConfig())
	a, b, c := belt(1, 0), belt(2, 100), belt(3, 400)
	for _, x := range []*models.Buildable{a, b, c} {
		require.NoError(t, w.Add(x))
	}

	hits := w.HitScan(mgl64.Vec3{-50, 0, 0}, mgl64.Vec3{600, 0, 0}, a)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.NotSame(t, a, h)
	}
	assert.Same(t, b, hits[0])
	assert.Same(t, c, hits[len(hits)-1])

	assert.Empty(t, w.HitScan(mgl64.Vec3{0, 50, 0}, mgl64.Vec3{600, 50, 0}, nil))
}

func TestOverlapScanRadius(t *testing.T) {
	w := New(DefaultConfig())
	a, b := belt(1, 0), belt(2, 1000)
	require.NoError(t, w.Add(a))
	require.NoError(t, w.Add(b))

	hits := w.OverlapScan(mgl64.Vec3{100, 0, 0}, 10, nil)
	require.Len(t, hits, 1)
	assert.Same(t, a, hits[0])
	assert.Empty(t, w.OverlapScan(mgl64.Vec3{100, 0, 0}, 10, a))
	assert.Empty(t, w.OverlapScan(mgl64.Vec3{500, 500, 0}, 10, nil))
}

func TestBoundsBody(t *testing.T) {
	w := New(DefaultConfig())
	m := models.NewBuildable(7, "machine", models.KindMachine, physics.NewTransform(mgl64.Vec3{0, 300, 0}, 0))
	require.NoError(t, w.Add(m, WithBounds(50)))
	hits := w.OverlapScan(mgl64.Vec3{0, 340, 0}, 1, nil)
	require.Len(t, hits, 1)
	assert.Same(t, m, hits[0])
}

func TestInstancedProxiesResolveToOwner(t *testing.T) {
	w := New(DefaultConfig())
	a := belt(1, 0)
	require.NoError(t, w.Add(a, Instanced()))

	hits := w.OverlapScan(mgl64.Vec3{0, 0, 0}, 1, nil)
	require.Len(t, hits, 1)
	assert.Same(t, a, hits[0])

	require.NoError(t, w.Remove(1))
	assert.Empty(t, w.OverlapScan(mgl64.Vec3{0, 0, 0}, 1, nil))
	assert.True(t, a.IsDestroyed())
	assert.False(t, w.Conveyors().Contains(1))
	assert.ErrorIs(t, w.Remove(1), ErrBuildableMissing)
}

func TestRemoveDropsIndexedBodies(t *testing.T) {
	w := New(DefaultConfig())
	require.NoError(t, w.Add(belt(1, 0), Instanced(), WithBounds(40)))
	require.NoError(t, w.Add(belt(2, 100)))
	require.NoError(t, w.Add(belt(3, 200), Instanced()))
	assert.Equal(t, 7, w.index.len())

	require.NoError(t, w.Remove(1))
	assert.Equal(t, 4, w.index.len())
	require.NoError(t, w.Remove(2))
	assert.Equal(t, 2, w.index.len())
	require.NoError(t, w.Remove(3))
	assert.Zero(t, w.index.len())
}

func TestLargeWorldVisitsBoxCells(t *testing.T) {
	w := New(Config{CellSize: 10, ConnectorRadius: 1})
	var last *models.Buildable
	for i := 0; i < 50; i++ {
		last = belt(models.EntityID(i+1), float64(i)*1000)
		require.NoError(t, w.Add(last))
	}
	hits := w.OverlapScan(mgl64.Vec3{49000, 0, 0}, 2, nil)
	require.Len(t, hits, 1)
	assert.Same(t, last, hits[0])
	assert.Len(t, w.Buildables(), 50)
}

func TestConveyorChains(t *testing.T) {
	r := NewConveyorRegistry()
	a, b, c := belt(1, 0), belt(2, 100), belt(3, 200)
	for _, x := range []*models.Buildable{a, b, c} {
		r.AddConveyor(x)
	}
	require.Len(t, r.Chains(), 3)

	_, outA := beltSlots(a)
	inB, outB := beltSlots(b)
	inC, _ := beltSlots(c)
	outA.SetConnection(inB)
	outB.SetConnection(inC)

	// Membership changes force a rebuild.
	r.RemoveConveyor(b)
	r.AddConveyor(b)

	chains := r.Chains()
	require.Len(t, chains, 1)
	assert.Equal(t, []models.EntityID{1, 2, 3}, chains[0].Members)
	assert.False(t, chains[0].Loop)

	ch, ok := r.ChainOf(3)
	require.True(t, ok)
	assert.Equal(t, chains[0].ID, ch.ID)
	assert.NotEqual(t, fingerprint([]models.EntityID{1, 2}), ch.ID)
	assert.Equal(t, 3, r.Len())

	r.AddConveyor(models.NewBuildable(9, "pipe", models.KindPipe, physics.Transform{}))
	assert.False(t, r.Contains(9))
}

func TestConveyorLoop(t *testing.T) {
	r := NewConveyorRegistry()
	a, b := belt(1, 0), belt(2, 100)
	inA, outA := beltSlots(a)
	inB, outB := beltSlots(b)
	outA.SetConnection(inB)
	outB.SetConnection(inA)
	r.AddConveyor(a)
	r.AddConveyor(b)

	chains := r.Chains()
	require.Len(t, chains, 1)
	assert.True(t, chains[0].Loop)
	assert.Len(t, chains[0].Members, 2)
}

func TestFluidRegistryNetworks(t *testing.T) {
	r := NewFluidRegistry()
	mk := func(id models.EntityID) (*models.FluidIntegrant, *models.FluidConnector, *models.FluidConnector) {
		b := models.NewBuildable(id, "pipe", models.KindPipe, physics.Transform{})
		fi := b.EnableIntegrant()
		c0 := models.NewFluidConnector(b, models.Placement{Slot: models.SlotConnection0}, models.PipeAny)
		c1 := models.NewFluidConnector(b, models.Placement{Slot: models.SlotConnection1}, models.PipeAny)
		for _, c := range []*models.FluidConnector{c0, c1} {
			fi.AddConnector(c)
			c.BindIntegrant(fi)
		}
		return fi, c0, c1
	}
	fa, _, a1 := mk(1)
	fb, b0, _ := mk(2)
	fc, _, _ := mk(3)
	a1.SetConnection(b0)

	for _, fi := range []*models.FluidIntegrant{fa, fb, fc, fa} {
		r.RegisterIntegrant(fi)
	}
	assert.Len(t, r.Integrants(), 3)
	assert.True(t, r.IsRegistered(fb))

	nets := r.Networks()
	require.Len(t, nets, 2)
	sizes := []int{len(nets[0]), len(nets[1])}
	assert.ElementsMatch(t, []int{2, 1}, sizes)
}

func TestTrackGraphUnion(t *testing.T) {
	g := NewTrackGraph()
	mk := func(id models.EntityID) *models.Buildable {
		return models.NewBuildable(id, "track", models.KindTrack, physics.Transform{})
	}
	a, b, c, d := mk(1), mk(2), mk(3), mk(4)

	g.Connect(a, b)
	g.Connect(b, a)
	g.Connect(c, d)
	assert.Equal(t, 2, g.Merges())
	assert.NotEqual(t, g.GraphID(1), g.GraphID(3))

	g.Connect(b, c)
	assert.Equal(t, 3, g.Merges())
	assert.Equal(t, g.GraphID(1), g.GraphID(4))
	assert.Equal(t, models.EntityID(9), g.GraphID(9))
}
