package world

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/autolink/internal/core/models"
)

// Chain is a maximal run of conveyors joined output-to-input. ID is a
// fingerprint of the ordered membership, so it changes whenever the run does.
type Chain struct {
	ID      uint64
	Members []models.EntityID
	Loop    bool
}

// ConveyorRegistry tracks placed conveyors and the chains derived from their
// belt links. Chains are rebuilt on every membership change, which is why
// the linker removes and re-adds a conveyor around a belt link.
type ConveyorRegistry struct {
	mu       sync.RWMutex
	members  map[models.EntityID]*models.Buildable
	chains   []Chain
	chainOf  map[models.EntityID]int
	rebuilds int
}

func NewConveyorRegistry() *ConveyorRegistry {
	return &ConveyorRegistry{
		members: make(map[models.EntityID]*models.Buildable),
		chainOf: make(map[models.EntityID]int),
	}
}

// AddConveyor registers a conveyor. Anything that is not a belt or lift is
// ignored.
func (r *ConveyorRegistry) AddConveyor(b *models.Buildable) {
	if b == nil || !b.Kind().IsConveyor() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[b.ID()] = b
	r.rebuildLocked()
}

func (r *ConveyorRegistry) RemoveConveyor(b *models.Buildable) {
	if b == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[b.ID()]; !ok {
		return
	}
	delete(r.members, b.ID())
	r.rebuildLocked()
}

func (r *ConveyorRegistry) Contains(id models.EntityID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

func (r *ConveyorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Rebuilds counts chain recomputations since creation.
func (r *ConveyorRegistry) Rebuilds() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rebuilds
}

func (r *ConveyorRegistry) Chains() []Chain {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Chain, len(r.chains))
	copy(out, r.chains)
	return out
}

// ChainOf returns the chain a conveyor belongs to.
func (r *ConveyorRegistry) ChainOf(id models.EntityID) (Chain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.chainOf[id]
	if !ok {
		return Chain{}, false
	}
	return r.chains[i], true
}

func beltSlot(b *models.Buildable, slot models.Slot) *models.BeltConnector {
	c, _ := b.Connection(slot).(*models.BeltConnector)
	return c
}

// next follows b's output to the registered conveyor whose input it feeds.
func (r *ConveyorRegistry) next(b *models.Buildable) *models.Buildable {
	out := beltSlot(b, models.SlotConnection1)
	if out == nil || out.Connection() == nil {
		return nil
	}
	partner := out.Connection()
	nb, ok := r.members[partner.Owner().ID()]
	if !ok || beltSlot(nb, models.SlotConnection0) != partner {
		return nil
	}
	return nb
}

func (r *ConveyorRegistry) rebuildLocked() {
	r.rebuilds++
	r.chains = r.chains[:0]
	r.chainOf = make(map[models.EntityID]int, len(r.members))

	ids := make([]models.EntityID, 0, len(r.members))
	hasPrev := make(map[models.EntityID]bool, len(r.members))
	for id, b := range r.members {
		ids = append(ids, id)
		if nb := r.next(b); nb != nil {
			hasPrev[nb.ID()] = true
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	visited := make(map[models.EntityID]bool, len(ids))
	walk := func(start models.EntityID, loop bool) {
		var members []models.EntityID
		for b := r.members[start]; b != nil && !visited[b.ID()]; b = r.next(b) {
			visited[b.ID()] = true
			members = append(members, b.ID())
		}
		idx := len(r.chains)
		for _, id := range members {
			r.chainOf[id] = idx
		}
		r.chains = append(r.chains, Chain{ID: fingerprint(members), Members: members, Loop: loop})
	}

	for _, id := range ids {
		if !hasPrev[id] && !visited[id] {
			walk(id, false)
		}
	}
	// Whatever is left has a predecessor on every member: closed loops.
	for _, id := range ids {
		if !visited[id] {
			walk(id, true)
		}
	}
}

func fingerprint(members []models.EntityID) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, id := range members {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
