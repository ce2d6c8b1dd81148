package autolink

import (
	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/models/interfaces"
)

// Linker performs the connector mutations and keeps the world registries in
// step with them. Any registry may be nil.
type Linker struct {
	conveyors interfaces.ConveyorRegistry
	fluids    interfaces.FluidRegistry
	tracks    interfaces.TrackGraph
}

func NewLinker(conveyors interfaces.ConveyorRegistry, fluids interfaces.FluidRegistry, tracks interfaces.TrackGraph) *Linker {
	return &Linker{conveyors: conveyors, fluids: fluids, tracks: tracks}
}

// LinkBelt connects a and b. When both sides are conveyors their owners
// leave the conveyor registry for the duration of the mutation so derived
// chain bookkeeping is rebuilt around the new link.
func (l *Linker) LinkBelt(a, b *models.BeltConnector) {
	ao, bo := a.Owner(), b.Owner()
	if l.conveyors == nil || !ao.Kind().IsConveyor() || !bo.Kind().IsConveyor() {
		a.SetConnection(b)
		return
	}
	l.conveyors.RemoveConveyor(ao)
	l.conveyors.RemoveConveyor(bo)
	a.SetConnection(b)
	l.conveyors.AddConveyor(ao)
	l.conveyors.AddConveyor(bo)
}

// LinkTrack adds a to b's link set and vice versa, then joins their rail
// graphs.
func (l *Linker) LinkTrack(a, b *models.TrackConnector) {
	a.AddConnection(b)
	if l.tracks != nil {
		l.tracks.Connect(a.Owner(), b.Owner())
	}
}

func (l *Linker) LinkFluid(a, b *models.FluidConnector) {
	a.SetConnection(b)
}

func (l *Linker) LinkHyper(a, b *models.HyperConnector) {
	a.SetConnection(b)
}

// RegisterIntegrants registers every integrant in batch that the fluid
// registry does not know yet, once each, and returns how many were new.
func (l *Linker) RegisterIntegrants(batch []*models.FluidIntegrant) int {
	if l.fluids == nil {
		return 0
	}
	seen := make(map[*models.FluidIntegrant]struct{}, len(batch))
	n := 0
	for _, fi := range batch {
		if fi == nil {
			continue
		}
		if _, dup := seen[fi]; dup {
			continue
		}
		seen[fi] = struct{}{}
		if l.fluids.IsRegistered(fi) {
			continue
		}
		l.fluids.RegisterIntegrant(fi)
		n++
	}
	return n
}
