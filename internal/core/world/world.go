package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/models/interfaces"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

var (
	_ interfaces.SpatialQuery     = (*World)(nil)
	_ interfaces.ConveyorRegistry = (*ConveyorRegistry)(nil)
	_ interfaces.FluidRegistry    = (*FluidRegistry)(nil)
	_ interfaces.TrackGraph       = (*TrackGraph)(nil)
)

// Config sizes the spatial index.
type Config struct {
	// CellSize is the edge length of a spatial index cell.
	CellSize float64 `yaml:"cell_size"`
	// ConnectorRadius is the radius of the collision body registered at
	// every connector.
	ConnectorRadius float64 `yaml:"connector_radius"`
}

func DefaultConfig() Config {
	return Config{CellSize: 200, ConnectorRadius: 5}
}

// World is an in-memory store of placed buildables with a spatial index and
// the registries the engine mutates. It is safe for concurrent use; the
// engine itself only calls it from one goroutine at a time.
type World struct {
	mu sync.RWMutex

	cfg        Config
	buildables map[models.EntityID]*models.Buildable
	order      []models.EntityID
	index      *grid
	proxies    map[ProxyID]models.EntityID
	nextProxy  ProxyID

	conveyors *ConveyorRegistry
	fluids    *FluidRegistry
	tracks    *TrackGraph
}

func New(cfg Config) *World {
	def := DefaultConfig()
	if cfg.CellSize <= 0 {
		cfg.CellSize = def.CellSize
	}
	if cfg.ConnectorRadius <= 0 {
		cfg.ConnectorRadius = def.ConnectorRadius
	}
	return &World{
		cfg:        cfg,
		buildables: make(map[models.EntityID]*models.Buildable),
		index:      newGrid(cfg.CellSize),
		proxies:    make(map[ProxyID]models.EntityID),
		conveyors:  NewConveyorRegistry(),
		fluids:     NewFluidRegistry(),
		tracks:     NewTrackGraph(),
	}
}

func (w *World) Conveyors() *ConveyorRegistry { return w.conveyors }
func (w *World) Fluids() *FluidRegistry       { return w.fluids }
func (w *World) Tracks() *TrackGraph          { return w.tracks }

// AddOption customizes how a buildable enters the spatial index.
type AddOption func(*addOptions)

type addOptions struct {
	bounds    float64
	instanced bool
}

// WithBounds adds a body of the given radius at the buildable's location in
// addition to the per-connector bodies.
func WithBounds(radius float64) AddOption {
	return func(o *addOptions) { o.bounds = radius }
}

// Instanced registers the buildable's bodies through instance proxies, the
// way batched meshes such as belts are represented.
func Instanced() AddOption {
	return func(o *addOptions) { o.instanced = true }
}

// Add places b into the world. Conveyors join the conveyor registry.
func (w *World) Add(b *models.Buildable, opts ...AddOption) error {
	if b == nil {
		return ErrNilBuildable
	}
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}

	w.mu.Lock()
	if _, exists := w.buildables[b.ID()]; exists {
		w.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrDuplicateID, b.ID())
	}
	w.buildables[b.ID()] = b
	w.order = append(w.order, b.ID())

	var proxy ProxyID
	if o.instanced {
		w.nextProxy++
		proxy = w.nextProxy
		w.proxies[proxy] = b.ID()
	}
	insert := func(center mgl64.Vec3, radius float64) {
		bd := &body{center: center, radius: radius, owner: b.ID(), proxy: proxy}
		w.index.insert(bd)
	}
	if o.bounds > 0 {
		insert(b.Location(), o.bounds)
	}
	for _, c := range b.Components() {
		if conn, ok := c.(models.Connector); ok {
			insert(conn.Location(), w.cfg.ConnectorRadius)
		}
	}
	w.mu.Unlock()

	if b.Kind().IsConveyor() {
		w.conveyors.AddConveyor(b)
	}
	return nil
}

// Remove takes a buildable out of the world and marks it destroyed.
func (w *World) Remove(id models.EntityID) error {
	w.mu.Lock()
	b, ok := w.buildables[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrBuildableMissing, id)
	}
	delete(w.buildables, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	dropped := make(map[ProxyID]struct{})
	for p, owner := range w.proxies {
		if owner == id {
			delete(w.proxies, p)
			dropped[p] = struct{}{}
		}
	}
	w.index.removeWhere(func(bd *body) bool {
		if bd.proxy == 0 {
			return bd.owner == id
		}
		_, gone := dropped[bd.proxy]
		return gone
	})
	w.mu.Unlock()

	if b.Kind().IsConveyor() {
		w.conveyors.RemoveConveyor(b)
	}
	b.Destroy()
	return nil
}

// Get returns the buildable with the given id.
func (w *World) Get(id models.EntityID) (*models.Buildable, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.buildables[id]
	return b, ok
}

// Buildables returns every buildable in insertion order.
func (w *World) Buildables() []*models.Buildable {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*models.Buildable, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.buildables[id])
	}
	return out
}

// resolve maps a body to the buildable it belongs to. Instanced bodies go
// through the proxy table; a proxy whose owner is gone does not resolve.
func (w *World) resolve(bd *body) (*models.Buildable, bool) {
	id := bd.owner
	if bd.proxy != 0 {
		owner, ok := w.proxies[bd.proxy]
		if !ok {
			return nil, false
		}
		id = owner
	}
	b, ok := w.buildables[id]
	return b, ok
}

type hit struct {
	b     *models.Buildable
	order float64
}

func sortHits(hits []hit) []*models.Buildable {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].order != hits[j].order {
			return hits[i].order < hits[j].order
		}
		return hits[i].b.ID() < hits[j].b.ID()
	})
	out := make([]*models.Buildable, len(hits))
	for i, h := range hits {
		out[i] = h.b
	}
	return out
}

// HitScan returns buildables whose bodies the segment start→end touches,
// nearest first. A buildable with several bodies on the line appears once
// per body.
func (w *World) HitScan(start, end mgl64.Vec3, ignore *models.Buildable) []*models.Buildable {
	seg := physics.Segment{Start: start, End: end}
	lo, hi := seg.Bounds()

	w.mu.RLock()
	defer w.mu.RUnlock()

	var hits []hit
	w.index.visit(lo, hi, func(bd *body) {
		ok, frac := seg.IntersectsSphere(bd.center, bd.radius)
		if !ok {
			return
		}
		b, ok := w.resolve(bd)
		if !ok || b == ignore {
			return
		}
		hits = append(hits, hit{b: b, order: frac})
	})
	return sortHits(hits)
}

// OverlapScan returns buildables whose bodies overlap the sphere, nearest
// first, with the same duplicate rule as HitScan.
func (w *World) OverlapScan(center mgl64.Vec3, radius float64, ignore *models.Buildable) []*models.Buildable {
	probe := physics.Sphere{Center: center, Radius: radius}
	lo, hi := probe.Bounds()

	w.mu.RLock()
	defer w.mu.RUnlock()

	var hits []hit
	w.index.visit(lo, hi, func(bd *body) {
		if !probe.Overlaps(physics.Sphere{Center: bd.center, Radius: bd.radius}) {
			return
		}
		b, ok := w.resolve(bd)
		if !ok || b == ignore {
			return
		}
		hits = append(hits, hit{b: b, order: physics.DistanceSq(center, bd.center)})
	})
	return sortHits(hits)
}
