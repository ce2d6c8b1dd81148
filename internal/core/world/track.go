package world

import (
	"sync"

	"github.com/zeusync/autolink/internal/core/models"
)

// TrackGraph keeps track segments grouped into rail graphs. Graphs are
// identified by their lowest member id. Connect is idempotent: joining two
// segments already in the same graph changes nothing, however many times it
// is called and in whichever order.
type TrackGraph struct {
	mu     sync.Mutex
	parent map[models.EntityID]models.EntityID
	merges int
}

func NewTrackGraph() *TrackGraph {
	return &TrackGraph{parent: make(map[models.EntityID]models.EntityID)}
}

func (g *TrackGraph) findLocked(id models.EntityID) models.EntityID {
	if _, ok := g.parent[id]; !ok {
		g.parent[id] = id
		return id
	}
	for g.parent[id] != id {
		g.parent[id] = g.parent[g.parent[id]]
		id = g.parent[id]
	}
	return id
}

func (g *TrackGraph) Connect(a, b *models.Buildable) {
	if a == nil || b == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	ra, rb := g.findLocked(a.ID()), g.findLocked(b.ID())
	if ra == rb {
		return
	}
	if ra < rb {
		g.parent[rb] = ra
	} else {
		g.parent[ra] = rb
	}
	g.merges++
}

// GraphID returns the graph a track segment belongs to. Segments that were
// never connected form their own graph.
func (g *TrackGraph) GraphID(id models.EntityID) models.EntityID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.findLocked(id)
}

// Merges counts how many times two distinct graphs were joined.
func (g *TrackGraph) Merges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.merges
}
