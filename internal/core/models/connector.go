package models

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/autolink/internal/core/systems/physics"
)

// Family groups connectors that can only ever link with each other.
type Family uint8

const (
	FamilyBelt Family = iota
	FamilyTrack
	FamilyFluid
	FamilyHyper
	FamilyPower
)

func (f Family) String() string {
	switch f {
	case FamilyBelt:
		return "belt"
	case FamilyTrack:
		return "track"
	case FamilyFluid:
		return "fluid"
	case FamilyHyper:
		return "hyper"
	case FamilyPower:
		return "power"
	default:
		return "unknown"
	}
}

// Connector is the capability surface shared by every connector family.
// Location and Normal are in world space.
type Connector interface {
	Component
	Name() string
	Family() Family
	Location() mgl64.Vec3
	Normal() mgl64.Vec3
	IsConnected() bool
	IsValid() bool
}

// Placement positions a connector on its owner, in the owner's local space.
type Placement struct {
	Name     string
	Location mgl64.Vec3
	Normal   mgl64.Vec3
	Slot     Slot
}

type connectorBase struct {
	owner    *Buildable
	name     string
	location mgl64.Vec3
	normal   mgl64.Vec3
}

func newConnectorBase(owner *Buildable, p Placement) connectorBase {
	return connectorBase{
		owner:    owner,
		name:     p.Name,
		location: p.Location,
		normal:   physics.Normalize(p.Normal),
	}
}

func (c *connectorBase) Owner() *Buildable { return c.owner }
func (c *connectorBase) Name() string      { return c.name }

func (c *connectorBase) Location() mgl64.Vec3 {
	return c.owner.transform.Point(c.location)
}

func (c *connectorBase) Normal() mgl64.Vec3 {
	return c.owner.transform.Direction(c.normal)
}

func (c *connectorBase) valid() bool {
	return c.owner != nil && !c.owner.IsDestroyed()
}

// BeltDirection is the item flow role of a belt connector.
type BeltDirection uint8

const (
	BeltNone BeltDirection = iota
	BeltInput
	BeltOutput
	BeltAny
)

func (d BeltDirection) String() string {
	switch d {
	case BeltInput:
		return "input"
	case BeltOutput:
		return "output"
	case BeltAny:
		return "any"
	default:
		return "none"
	}
}

// BeltConnector is a unidirectional item transport attachment point.
type BeltConnector struct {
	connectorBase
	direction  BeltDirection
	clearance  float64
	tier       uint8
	connection *BeltConnector
}

// NewBeltConnector creates a belt connector and attaches it to owner.
func NewBeltConnector(owner *Buildable, p Placement, dir BeltDirection, clearance float64) *BeltConnector {
	c := &BeltConnector{
		connectorBase: newConnectorBase(owner, p),
		direction:     dir,
		clearance:     clearance,
	}
	owner.attach(c, p.Slot)
	return c
}

func (c *BeltConnector) Family() Family           { return FamilyBelt }
func (c *BeltConnector) Direction() BeltDirection { return c.direction }

// Clearance is how far the connector's mechanism may extend. Only lifts
// carry a non-zero clearance.
func (c *BeltConnector) Clearance() float64 { return c.clearance }

// Tier is the transport grade. Zero means unrated and matches any tier.
func (c *BeltConnector) Tier() uint8        { return c.tier }
func (c *BeltConnector) SetTier(tier uint8) { c.tier = tier }

func (c *BeltConnector) IsValid() bool { return c != nil && c.valid() }

func (c *BeltConnector) Connection() *BeltConnector { return c.connection }
func (c *BeltConnector) IsConnected() bool          { return c.connection != nil }

// SetConnection links c and other to each other, releasing any previous
// partner of either side. A nil other disconnects c.
func (c *BeltConnector) SetConnection(other *BeltConnector) {
	if c.connection != nil {
		c.connection.connection = nil
	}
	c.connection = other
	if other == nil {
		return
	}
	if other.connection != nil && other.connection != c {
		other.connection.connection = nil
	}
	other.connection = c
}

// CanConnectTo reports type-level compatibility: complementary directions and
// matching tiers.
func (c *BeltConnector) CanConnectTo(other *BeltConnector) bool {
	if other == nil {
		return false
	}
	if c.tier != 0 && other.tier != 0 && c.tier != other.tier {
		return false
	}
	switch c.direction {
	case BeltInput:
		return other.direction == BeltOutput || other.direction == BeltAny
	case BeltOutput:
		return other.direction == BeltInput || other.direction == BeltAny
	case BeltAny:
		return other.direction != BeltNone
	default:
		return false
	}
}

// TrackConnector is a rail attachment point that may link to several other
// track connectors at once.
type TrackConnector struct {
	connectorBase
	connections []*TrackConnector
}

// NewTrackConnector creates a track connector and attaches it to owner.
func NewTrackConnector(owner *Buildable, p Placement) *TrackConnector {
	c := &TrackConnector{connectorBase: newConnectorBase(owner, p)}
	owner.attach(c, p.Slot)
	return c
}

func (c *TrackConnector) Family() Family                  { return FamilyTrack }
func (c *TrackConnector) IsValid() bool                   { return c != nil && c.valid() }
func (c *TrackConnector) IsConnected() bool               { return len(c.connections) > 0 }
func (c *TrackConnector) Connections() []*TrackConnector { return c.connections }

// IsConnectedTo reports whether other is already in the link set.
func (c *TrackConnector) IsConnectedTo(other *TrackConnector) bool {
	for _, existing := range c.connections {
		if existing == other {
			return true
		}
	}
	return false
}

// AddConnection links c and other in both directions. Existing links are
// left alone, so the call is idempotent.
func (c *TrackConnector) AddConnection(other *TrackConnector) {
	if other == nil || other == c {
		return
	}
	if !c.IsConnectedTo(other) {
		c.connections = append(c.connections, other)
	}
	if !other.IsConnectedTo(c) {
		other.connections = append(other.connections, c)
	}
}

// PipeType is the role of a fluid or hypertube connector.
type PipeType uint8

const (
	PipeNone PipeType = iota
	PipeConsumer
	PipeProducer
	PipeAny
	// PipeAttachment marks connectors used for attachments that never
	// connect to other world objects.
	PipeAttachment
)

func (t PipeType) String() string {
	switch t {
	case PipeConsumer:
		return "consumer"
	case PipeProducer:
		return "producer"
	case PipeAny:
		return "any"
	case PipeAttachment:
		return "attachment"
	default:
		return "none"
	}
}

// Linkable reports whether the type is one that joins world objects.
func (t PipeType) Linkable() bool {
	return t == PipeConsumer || t == PipeProducer || t == PipeAny
}

func pipeTypesCompatible(a, b PipeType) bool {
	if !a.Linkable() || !b.Linkable() {
		return false
	}
	if a == PipeAny || b == PipeAny {
		return true
	}
	return a != b
}

// FluidConnector is a bidirectional fluid attachment point.
type FluidConnector struct {
	connectorBase
	typ        PipeType
	integrant  *FluidIntegrant
	connection *FluidConnector
}

// NewFluidConnector creates a fluid connector and attaches it to owner. The
// integrant reference is left empty until the connector is first collected.
func NewFluidConnector(owner *Buildable, p Placement, typ PipeType) *FluidConnector {
	c := &FluidConnector{
		connectorBase: newConnectorBase(owner, p),
		typ:           typ,
	}
	owner.attach(c, p.Slot)
	return c
}

func (c *FluidConnector) Family() Family              { return FamilyFluid }
func (c *FluidConnector) Type() PipeType              { return c.typ }
func (c *FluidConnector) IsValid() bool               { return c != nil && c.valid() }
func (c *FluidConnector) IsConnected() bool           { return c.connection != nil }
func (c *FluidConnector) Connection() *FluidConnector { return c.connection }

// Integrant returns the fluid network participant this connector reports
// through, or nil if it has not been bound yet.
func (c *FluidConnector) Integrant() *FluidIntegrant { return c.integrant }

// BindIntegrant sets the integrant reference if it is still empty. It
// reports whether the reference was set by this call. The reference is never
// replaced once bound.
func (c *FluidConnector) BindIntegrant(fi *FluidIntegrant) bool {
	if c.integrant != nil || fi == nil {
		return false
	}
	c.integrant = fi
	return true
}

// SetConnection links c and other to each other.
func (c *FluidConnector) SetConnection(other *FluidConnector) {
	if c.connection != nil {
		c.connection.connection = nil
	}
	c.connection = other
	if other == nil {
		return
	}
	if other.connection != nil && other.connection != c {
		other.connection.connection = nil
	}
	other.connection = c
}

func (c *FluidConnector) CanConnectTo(other *FluidConnector) bool {
	return other != nil && pipeTypesCompatible(c.typ, other.typ)
}

// HyperConnector is a bidirectional hypertube attachment point.
type HyperConnector struct {
	connectorBase
	typ        PipeType
	connection *HyperConnector
}

// NewHyperConnector creates a hypertube connector and attaches it to owner.
func NewHyperConnector(owner *Buildable, p Placement, typ PipeType) *HyperConnector {
	c := &HyperConnector{
		connectorBase: newConnectorBase(owner, p),
		typ:           typ,
	}
	owner.attach(c, p.Slot)
	return c
}

func (c *HyperConnector) Family() Family              { return FamilyHyper }
func (c *HyperConnector) Type() PipeType              { return c.typ }
func (c *HyperConnector) IsValid() bool               { return c != nil && c.valid() }
func (c *HyperConnector) IsConnected() bool           { return c.connection != nil }
func (c *HyperConnector) Connection() *HyperConnector { return c.connection }

// SetConnection links c and other to each other.
func (c *HyperConnector) SetConnection(other *HyperConnector) {
	if c.connection != nil {
		c.connection.connection = nil
	}
	c.connection = other
	if other == nil {
		return
	}
	if other.connection != nil && other.connection != c {
		other.connection.connection = nil
	}
	other.connection = c
}

func (c *HyperConnector) CanConnectTo(other *HyperConnector) bool {
	return other != nil && pipeTypesCompatible(c.typ, other.typ)
}

// PowerConnector is an electrical attachment point. Power links are wired by
// hand and never discovered automatically.
type PowerConnector struct {
	connectorBase
	wires int
}

// NewPowerConnector creates a power connector and attaches it to owner.
func NewPowerConnector(owner *Buildable, p Placement) *PowerConnector {
	c := &PowerConnector{connectorBase: newConnectorBase(owner, p)}
	owner.attach(c, p.Slot)
	return c
}

func (c *PowerConnector) Family() Family    { return FamilyPower }
func (c *PowerConnector) IsValid() bool     { return c != nil && c.valid() }
func (c *PowerConnector) IsConnected() bool { return c.wires > 0 }
func (c *PowerConnector) Wires() int        { return c.wires }

// AddWire records a hand-placed wire ending at this connector.
func (c *PowerConnector) AddWire() { c.wires++ }

var (
	_ Connector = (*BeltConnector)(nil)
	_ Connector = (*TrackConnector)(nil)
	_ Connector = (*FluidConnector)(nil)
	_ Connector = (*HyperConnector)(nil)
	_ Connector = (*PowerConnector)(nil)
)
