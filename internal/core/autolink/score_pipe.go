package autolink

import (
	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

// scoreFluid returns the first candidate that passes every filter. Pipe
// connectors are point-like, so the first coincident, aligned, compatible
// connector is the only one that can exist.
func (e *Engine) scoreFluid(home FluidCandidate, hits []*models.Buildable) (FluidCandidate, bool) {
	hc := home.Connector
	hLoc, hNorm := hc.Location(), hc.Normal()
	homeJunction := hc.Owner().Kind() == models.KindPipeJunction

	for _, hit := range hits {
		for _, cand := range CollectFluid(hit) {
			c := cand.Connector
			switch {
			case !c.IsValid():
				e.reject(models.FamilyFluid, rejectInvalid)
			case c == hc || c.Owner() == hc.Owner():
				e.reject(models.FamilyFluid, rejectSelf)
			case c.IsConnected():
				e.reject(models.FamilyFluid, rejectConnected)
			case homeJunction && hit.Kind() == models.KindPipeJunction:
				// Two junctions joined face to face do not simulate.
				e.reject(models.FamilyFluid, rejectClass)
			case !hc.CanConnectTo(c):
				e.reject(models.FamilyFluid, rejectIncompatible)
			case !physics.Collinear(hNorm, c.Normal(), e.cfg.Alignment.CollinearTolerance):
				e.reject(models.FamilyFluid, rejectAlignment)
			case physics.DistanceSq(hLoc, c.Location()) > e.cfg.Fluid.MaxDistanceSq:
				e.reject(models.FamilyFluid, rejectDistance)
			default:
				return cand, true
			}
		}
	}
	return FluidCandidate{}, false
}

// scoreHyper mirrors scoreFluid for hypertube connectors.
func (e *Engine) scoreHyper(home *models.HyperConnector, hits []*models.Buildable) *models.HyperConnector {
	hLoc, hNorm := home.Location(), home.Normal()

	for _, hit := range hits {
		for _, c := range CollectHyper(hit) {
			switch {
			case !c.IsValid():
				e.reject(models.FamilyHyper, rejectInvalid)
			case c == home || c.Owner() == home.Owner():
				e.reject(models.FamilyHyper, rejectSelf)
			case c.IsConnected():
				e.reject(models.FamilyHyper, rejectConnected)
			case !home.CanConnectTo(c):
				e.reject(models.FamilyHyper, rejectIncompatible)
			case !physics.Collinear(hNorm, c.Normal(), e.cfg.Alignment.CollinearTolerance):
				e.reject(models.FamilyHyper, rejectAlignment)
			case physics.DistanceSq(hLoc, c.Location()) > e.cfg.Hyper.MaxDistanceSq:
				e.reject(models.FamilyHyper, rejectDistance)
			default:
				return c
			}
		}
	}
	return nil
}
