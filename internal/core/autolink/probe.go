package autolink

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

// beltProbeLength picks how far to look along a belt connector's normal:
// belts must touch, lifts may reach another extended lift, and anything else
// may meet one extended lift.
func (e *Engine) beltProbeLength(owner *models.Buildable) float64 {
	switch owner.Kind() {
	case models.KindConveyorBelt:
		return e.cfg.Belt.BeltProbeLength
	case models.KindConveyorLift:
		return e.cfg.Belt.LiftProbeLength
	default:
		return e.cfg.Belt.DefaultProbeLength
	}
}

func (e *Engine) probeBelt(c *models.BeltConnector) []*models.Buildable {
	seg := physics.SegmentAlong(c.Location(), c.Normal(), e.beltProbeLength(c.Owner()))
	e.metrics.Probed(models.FamilyBelt.String())
	return e.space.HitScan(seg.Start, seg.End, c.Owner())
}

// probeTrack uses a sphere rather than a line: curved track bodies are not
// reliably struck by a straight probe, and they sit below the connector.
func (e *Engine) probeTrack(c *models.TrackConnector) []*models.Buildable {
	center := c.Location().Add(mgl64.Vec3{0, 0, e.cfg.Track.VerticalOffset})
	e.metrics.Probed(models.FamilyTrack.String())
	return e.space.OverlapScan(center, e.cfg.Track.Radius, c.Owner())
}

func (e *Engine) probeFluid(c *models.FluidConnector) []*models.Buildable {
	e.metrics.Probed(models.FamilyFluid.String())
	return e.space.OverlapScan(c.Location(), e.cfg.Fluid.Radius, c.Owner())
}

func (e *Engine) probeHyper(c *models.HyperConnector) []*models.Buildable {
	seg := physics.SegmentAlong(c.Location(), c.Normal(), e.cfg.Hyper.ProbeLength)
	e.metrics.Probed(models.FamilyHyper.String())
	return e.space.HitScan(seg.Start, seg.End, c.Owner())
}
