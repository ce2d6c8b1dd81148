package autolink

import "github.com/zeusync/autolink/internal/core/models"

// Candidate collection. Every collector recognizes the kinds whose
// connectors live in the fast-path slots and falls back to a scan of all
// components otherwise.

func slots[T any](b *models.Buildable) []T {
	out := make([]T, 0, 2)
	for _, slot := range []models.Slot{models.SlotConnection0, models.SlotConnection1} {
		if c, ok := b.Connection(slot).(T); ok {
			out = append(out, c)
		}
	}
	return out
}

func scan[T any](b *models.Buildable) []T {
	var out []T
	for _, comp := range b.Components() {
		if c, ok := comp.(T); ok {
			out = append(out, c)
		}
	}
	return out
}

// CollectBelt returns b's open belt connectors whose direction is input or
// output.
func CollectBelt(b *models.Buildable) []*models.BeltConnector {
	if b.IsDestroyed() {
		return nil
	}
	var all []*models.BeltConnector
	switch b.Kind() {
	case models.KindConveyorBelt, models.KindConveyorLift:
		all = slots[*models.BeltConnector](b)
	default:
		all = scan[*models.BeltConnector](b)
	}

	out := all[:0]
	for _, c := range all {
		if !c.IsValid() || c.IsConnected() {
			continue
		}
		if d := c.Direction(); d != models.BeltInput && d != models.BeltOutput {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CollectTrack returns every valid track connector on b. Existing links do
// not disqualify a track connector.
func CollectTrack(b *models.Buildable) []*models.TrackConnector {
	if b.IsDestroyed() {
		return nil
	}
	var all []*models.TrackConnector
	switch b.Kind() {
	case models.KindTrack:
		all = slots[*models.TrackConnector](b)
	default:
		all = scan[*models.TrackConnector](b)
	}

	out := all[:0]
	for _, c := range all {
		if c.IsValid() {
			out = append(out, c)
		}
	}
	return out
}

// FluidCandidate pairs an open fluid connector with the integrant it reports
// through, so the caller can register the integrant once linked.
type FluidCandidate struct {
	Connector *models.FluidConnector
	Integrant *models.FluidIntegrant
}

// integrants lists every fluid integrant on b: the buildable itself first,
// then sub-components in attachment order.
func integrants(b *models.Buildable) []*models.FluidIntegrant {
	var out []*models.FluidIntegrant
	if fi := b.Integrant(); fi != nil {
		out = append(out, fi)
	}
	return append(out, scan[*models.FluidIntegrant](b)...)
}

// resolveIntegrant binds c to the integrant it reports through: the one
// that lists it, else the buildable's own. An existing binding always wins.
// The result is nil when b has no integrant for c at all.
func resolveIntegrant(b *models.Buildable, c *models.FluidConnector, owned []*models.FluidIntegrant) *models.FluidIntegrant {
	if fi := c.Integrant(); fi != nil {
		return fi
	}
	for _, fi := range owned {
		for _, listed := range fi.Connectors() {
			if listed == c {
				c.BindIntegrant(fi)
				return fi
			}
		}
	}
	if fi := b.Integrant(); fi != nil {
		fi.AddConnector(c)
		c.BindIntegrant(fi)
		return fi
	}
	return nil
}

// CollectFluid returns b's open fluid connectors. A connector whose integrant
// reference is still empty is bound while collecting; this is the only place
// the reference is ever set. Connectors without any integrant are returned
// with a nil Integrant.
func CollectFluid(b *models.Buildable) []FluidCandidate {
	if b.IsDestroyed() {
		return nil
	}
	var all []*models.FluidConnector
	switch b.Kind() {
	case models.KindPipe, models.KindPipeJunction:
		all = slots[*models.FluidConnector](b)
	default:
		all = scan[*models.FluidConnector](b)
	}

	owned := integrants(b)
	var out []FluidCandidate
	for _, c := range all {
		if c == nil {
			continue
		}
		fi := resolveIntegrant(b, c, owned)
		if !c.IsValid() || c.IsConnected() || !c.Type().Linkable() {
			continue
		}
		out = append(out, FluidCandidate{Connector: c, Integrant: fi})
	}
	return out
}

// CollectHyper returns b's open hypertube connectors.
func CollectHyper(b *models.Buildable) []*models.HyperConnector {
	if b.IsDestroyed() {
		return nil
	}
	var all []*models.HyperConnector
	switch b.Kind() {
	case models.KindHypertube:
		all = slots[*models.HyperConnector](b)
	default:
		all = scan[*models.HyperConnector](b)
	}

	out := all[:0]
	for _, c := range all {
		if !c.IsValid() || c.IsConnected() || !c.Type().Linkable() {
			continue
		}
		out = append(out, c)
	}
	return out
}
