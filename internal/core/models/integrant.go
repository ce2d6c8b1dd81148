package models

import "github.com/google/uuid"

// FluidIntegrant is a participant in the fluid simulation network. It is
// either a buildable itself (pipes, junctions, most machines) or a
// sub-component of one.
type FluidIntegrant struct {
	id         uuid.UUID
	name       string
	owner      *Buildable
	connectors []*FluidConnector
}

func newFluidIntegrant(owner *Buildable, name string) *FluidIntegrant {
	return &FluidIntegrant{id: uuid.New(), name: name, owner: owner}
}

// NewFluidIntegrant creates a sub-component integrant and attaches it to
// owner.
func NewFluidIntegrant(owner *Buildable, name string) *FluidIntegrant {
	fi := newFluidIntegrant(owner, name)
	owner.AddComponent(fi)
	return fi
}

func (fi *FluidIntegrant) ID() uuid.UUID     { return fi.id }
func (fi *FluidIntegrant) Name() string      { return fi.name }
func (fi *FluidIntegrant) Owner() *Buildable { return fi.owner }

// Connectors lists the fluid connectors this integrant reports for.
func (fi *FluidIntegrant) Connectors() []*FluidConnector { return fi.connectors }

// AddConnector lists c as one of the integrant's connectors.
func (fi *FluidIntegrant) AddConnector(c *FluidConnector) {
	for _, existing := range fi.connectors {
		if existing == c {
			return
		}
	}
	fi.connectors = append(fi.connectors, c)
}
