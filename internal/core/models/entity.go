package models

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/autolink/internal/core/systems/physics"
)

// EntityID identifies a buildable within a world.
type EntityID uint64

// Kind is the coarse classification of a buildable. The set is closed: every
// kind-specific shortcut in the engine switches on it and falls back to a
// generic component scan for anything it does not recognize.
type Kind uint8

const (
	KindOther Kind = iota
	KindMachine
	KindConveyorBelt
	KindConveyorLift
	KindPipe
	KindPipeJunction
	KindHypertube
	KindTrack
	KindStructure
	KindPole
	KindPowerPole
)

var kindNames = map[Kind]string{
	KindOther:        "other",
	KindMachine:      "machine",
	KindConveyorBelt: "conveyor_belt",
	KindConveyorLift: "conveyor_lift",
	KindPipe:         "pipe",
	KindPipeJunction: "pipe_junction",
	KindHypertube:    "hypertube",
	KindTrack:        "track",
	KindStructure:    "structure",
	KindPole:         "pole",
	KindPowerPole:    "power_pole",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindOther, false
}

// IsConveyor reports whether the kind is a belt segment or a lift.
func (k Kind) IsConveyor() bool {
	return k == KindConveyorBelt || k == KindConveyorLift
}

// Component is anything a buildable owns.
type Component interface {
	Owner() *Buildable
}

// Slot addresses the fast-path connection slots of well-known kinds.
type Slot int8

const (
	SlotNone Slot = iota - 1
	SlotConnection0
	SlotConnection1
)

// LiftState is the lift-only part of a buildable. OpposingClearance holds the
// bellows extension latched at each end (index by slot) when the lift last
// snapped to a facing lift.
type LiftState struct {
	OpposingClearance [2]float64
}

// Buildable is a placed world object. The engine only inspects buildables
// and mutates the connectors they own; it never creates or destroys them.
type Buildable struct {
	id        EntityID
	name      string
	kind      Kind
	transform physics.Transform

	components  []Component
	connections [2]Component
	integrant   *FluidIntegrant
	lift        *LiftState
	destroyed   bool
}

// NewBuildable creates a buildable with no components. Lifts start with a
// zero LiftState.
func NewBuildable(id EntityID, name string, kind Kind, transform physics.Transform) *Buildable {
	b := &Buildable{
		id:        id,
		name:      name,
		kind:      kind,
		transform: transform,
	}
	if kind == KindConveyorLift {
		b.lift = &LiftState{}
	}
	return b
}

func (b *Buildable) ID() EntityID                 { return b.id }
func (b *Buildable) Name() string                 { return b.name }
func (b *Buildable) Kind() Kind                   { return b.kind }
func (b *Buildable) Transform() physics.Transform { return b.transform }
func (b *Buildable) Location() mgl64.Vec3         { return b.transform.Location }

// Lift returns the lift state, or nil for anything that is not a lift.
func (b *Buildable) Lift() *LiftState { return b.lift }

// IsDestroyed reports whether the buildable has been torn down. Connectors of
// a destroyed buildable are invalid.
func (b *Buildable) IsDestroyed() bool { return b == nil || b.destroyed }

// Destroy marks the buildable as torn down.
func (b *Buildable) Destroy() { b.destroyed = true }

// Components returns every component in attachment order.
func (b *Buildable) Components() []Component { return b.components }

// Connection returns the component attached at a fast-path slot.
func (b *Buildable) Connection(slot Slot) Component {
	if slot < SlotConnection0 || slot > SlotConnection1 {
		return nil
	}
	return b.connections[slot]
}

// Integrant returns the buildable's own fluid integrant, if it participates
// in the fluid network directly.
func (b *Buildable) Integrant() *FluidIntegrant { return b.integrant }

// EnableIntegrant makes the buildable its own fluid integrant.
func (b *Buildable) EnableIntegrant() *FluidIntegrant {
	if b.integrant == nil {
		b.integrant = newFluidIntegrant(b, b.name)
	}
	return b.integrant
}

// attach records c as a component and, for a real slot, as a fast-path
// connection.
func (b *Buildable) attach(c Component, slot Slot) {
	b.components = append(b.components, c)
	if slot >= SlotConnection0 && slot <= SlotConnection1 {
		b.connections[slot] = c
	}
}

// AddComponent attaches a component that has no fast-path slot.
func (b *Buildable) AddComponent(c Component) {
	b.attach(c, SlotNone)
}
