package world

import (
	"sync"

	"github.com/zeusync/autolink/internal/core/models"
)

// FluidRegistry is the set of integrants taking part in fluid simulation.
// Networks are derived on demand from the links between registered
// integrants.
type FluidRegistry struct {
	mu         sync.RWMutex
	integrants map[*models.FluidIntegrant]int
	order      []*models.FluidIntegrant
}

func NewFluidRegistry() *FluidRegistry {
	return &FluidRegistry{integrants: make(map[*models.FluidIntegrant]int)}
}

// RegisterIntegrant adds fi. Registering the same integrant twice is a no-op.
func (r *FluidRegistry) RegisterIntegrant(fi *models.FluidIntegrant) {
	if fi == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.integrants[fi]; ok {
		return
	}
	r.integrants[fi] = len(r.order)
	r.order = append(r.order, fi)
}

func (r *FluidRegistry) IsRegistered(fi *models.FluidIntegrant) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.integrants[fi]
	return ok
}

// Integrants returns registered integrants in registration order.
func (r *FluidRegistry) Integrants() []*models.FluidIntegrant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.FluidIntegrant, len(r.order))
	copy(out, r.order)
	return out
}

// Networks groups registered integrants that are joined through linked fluid
// connectors. Groups and their members follow registration order.
func (r *FluidRegistry) Networks() [][]*models.FluidIntegrant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parent := make([]int, len(r.order))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i, fi := range r.order {
		for _, c := range fi.Connectors() {
			partner := c.Connection()
			if partner == nil || partner.Integrant() == nil {
				continue
			}
			j, ok := r.integrants[partner.Integrant()]
			if !ok {
				continue
			}
			a, b := find(i), find(j)
			if a == b {
				continue
			}
			if a < b {
				parent[b] = a
			} else {
				parent[a] = b
			}
		}
	}

	var out [][]*models.FluidIntegrant
	slot := make(map[int]int)
	for i, fi := range r.order {
		root := find(i)
		k, ok := slot[root]
		if !ok {
			k = len(out)
			slot[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], fi)
	}
	return out
}
