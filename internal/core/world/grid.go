package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/autolink/internal/core/models"
)

// ProxyID names one instance of a batched visual representation. Hits on an
// instanced body report the proxy, which the world maps back to its owner.
type ProxyID uint64

// body is a collision sphere in the spatial index. A non-zero proxy marks an
// instanced body; owner is only meaningful when proxy is zero.
type body struct {
	center mgl64.Vec3
	radius float64
	owner  models.EntityID
	proxy  ProxyID
}

type cellKey struct{ x, y, z int64 }

// grid buckets bodies by the cell containing their center. Queries widen
// their box by the largest body radius seen so no overlap is missed.
type grid struct {
	cellSize  float64
	cells     map[cellKey][]*body
	maxRadius float64
}

func newGrid(cellSize float64) *grid {
	if cellSize <= 0 {
		cellSize = 100
	}
	return &grid{cellSize: cellSize, cells: make(map[cellKey][]*body)}
}

func (g *grid) key(p mgl64.Vec3) cellKey {
	return cellKey{
		x: int64(math.Floor(p[0] / g.cellSize)),
		y: int64(math.Floor(p[1] / g.cellSize)),
		z: int64(math.Floor(p[2] / g.cellSize)),
	}
}

func (g *grid) insert(b *body) {
	k := g.key(b.center)
	g.cells[k] = append(g.cells[k], b)
	if b.radius > g.maxRadius {
		g.maxRadius = b.radius
	}
}

func (g *grid) len() int {
	n := 0
	for _, bodies := range g.cells {
		n += len(bodies)
	}
	return n
}

// removeWhere drops every body matching pred.
func (g *grid) removeWhere(pred func(*body) bool) {
	for k, bodies := range g.cells {
		kept := bodies[:0]
		for _, b := range bodies {
			if !pred(b) {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			delete(g.cells, k)
			continue
		}
		for i := len(kept); i < len(bodies); i++ {
			bodies[i] = nil
		}
		g.cells[k] = kept
	}
}

// visit calls fn for every body whose cell intersects the box [lo, hi]
// widened by the largest body radius.
func (g *grid) visit(lo, hi mgl64.Vec3, fn func(*body)) {
	pad := mgl64.Vec3{g.maxRadius, g.maxRadius, g.maxRadius}
	a := g.key(lo.Sub(pad))
	b := g.key(hi.Add(pad))

	span := (b.x - a.x + 1) * (b.y - a.y + 1) * (b.z - a.z + 1)
	if span > int64(len(g.cells)) {
		// Sparse world: walking the occupied cells is cheaper than the box.
		for k, bodies := range g.cells {
			if k.x < a.x || k.x > b.x || k.y < a.y || k.y > b.y || k.z < a.z || k.z > b.z {
				continue
			}
			for _, bd := range bodies {
				fn(bd)
			}
		}
		return
	}

	for x := a.x; x <= b.x; x++ {
		for y := a.y; y <= b.y; y++ {
			for z := a.z; z <= b.z; z++ {
				for _, bd := range g.cells[cellKey{x, y, z}] {
					fn(bd)
				}
			}
		}
	}
}
