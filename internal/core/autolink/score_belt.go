package autolink

import (
	"math"

	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

type beltClass uint8

const (
	classBuilding beltClass = iota
	classBelt
	classLift
)

func classify(b *models.Buildable) beltClass {
	switch b.Kind() {
	case models.KindConveyorBelt:
		return classBelt
	case models.KindConveyorLift:
		return classLift
	default:
		return classBuilding
	}
}

// liftExtension is the opposing-connection clearance latched at the lift end
// that holds c, or zero when c is not on a lift.
func liftExtension(c *models.BeltConnector) float64 {
	owner := c.Owner()
	lift := owner.Lift()
	if lift == nil {
		return 0
	}
	for i, slot := range []models.Slot{models.SlotConnection0, models.SlotConnection1} {
		if bc, ok := owner.Connection(slot).(*models.BeltConnector); ok && bc == c {
			return lift.OpposingClearance[i]
		}
	}
	return 0
}

// beltLimits returns the allowed separation range for a pair. Belts must
// touch. Lifts keep a minimum gap so facing bellows never interpenetrate and
// may reach as far as their clearance plus the latched extension. Between
// two lifts the extension latched on the receiving (input) end applies.
func (e *Engine) beltLimits(home, cand *models.BeltConnector) (lo, hi float64) {
	hc, cc := classify(home.Owner()), classify(cand.Owner())
	switch {
	case hc == classBelt || cc == classBelt:
		return 0, 0
	case hc == classLift && cc == classLift:
		ext := liftExtension(cand)
		if home.Direction() == models.BeltInput {
			ext = liftExtension(home)
		}
		return e.cfg.Belt.LiftMinDistance, home.Clearance() + cand.Clearance() + ext
	case hc == classLift:
		return e.cfg.Belt.LiftMinDistance, home.Clearance() + liftExtension(home)
	case cc == classLift:
		return e.cfg.Belt.LiftMinDistance, cand.Clearance() + liftExtension(cand)
	default:
		return 0, 0
	}
}

// beltCandidates turns one probe hit into candidate connectors. A conveyor
// offers its single connector on the opposite side. Other buildables are
// only considered when the home connector is itself on a conveyor: linking
// attachments or buildings directly to each other destabilizes the
// transport simulation.
func (e *Engine) beltCandidates(home *models.BeltConnector, hit *models.Buildable) []*models.BeltConnector {
	if hit.Kind().IsConveyor() {
		slot := models.SlotConnection0
		if home.Direction() == models.BeltInput {
			slot = models.SlotConnection1
		}
		if c, ok := hit.Connection(slot).(*models.BeltConnector); ok && c != nil {
			return []*models.BeltConnector{c}
		}
		return nil
	}
	if !home.Owner().Kind().IsConveyor() {
		e.reject(models.FamilyBelt, rejectClass)
		return nil
	}
	return CollectBelt(hit)
}

// scoreBelt picks the belt connector home should link to, or nil. A
// touching, opposing candidate wins outright; otherwise the nearest
// candidate that faces home and that home faces is chosen.
func (e *Engine) scoreBelt(home *models.BeltConnector, hits []*models.Buildable) *models.BeltConnector {
	hLoc, hNorm := home.Location(), home.Normal()
	tol := e.cfg.Alignment.CollinearTolerance

	var best *models.BeltConnector
	bestDistSq := math.MaxFloat64

	for _, hit := range hits {
		for _, c := range e.beltCandidates(home, hit) {
			switch {
			case !c.IsValid():
				e.reject(models.FamilyBelt, rejectInvalid)
				continue
			case c == best:
				e.reject(models.FamilyBelt, rejectDuplicate)
				continue
			case c.Owner() == home.Owner():
				e.reject(models.FamilyBelt, rejectSelf)
				continue
			case c.IsConnected():
				e.reject(models.FamilyBelt, rejectConnected)
				continue
			case !home.CanConnectTo(c) || !c.CanConnectTo(home):
				e.reject(models.FamilyBelt, rejectIncompatible)
				continue
			}

			cLoc, cNorm := c.Location(), c.Normal()
			distSq := physics.DistanceSq(hLoc, cLoc)
			lo, hi := e.beltLimits(home, c)
			// The lower bound goes negative for lo < 1, which disables it.
			if distSq < lo*lo-1 || distSq > hi*hi+1 {
				e.reject(models.FamilyBelt, rejectDistance)
				continue
			}
			if !physics.Collinear(hNorm, cNorm, tol) {
				e.reject(models.FamilyBelt, rejectAlignment)
				continue
			}

			if distSq < 1 {
				if hNorm.Dot(cNorm) < 0 {
					return c
				}
				e.reject(models.FamilyBelt, rejectDirection)
				continue
			}

			// Separated pair: each normal must face the other connector.
			toHome := hLoc.Sub(cLoc)
			if hNorm.Dot(toHome) >= 0 || cNorm.Dot(toHome) <= 0 {
				e.reject(models.FamilyBelt, rejectDirection)
				continue
			}
			if distSq < bestDistSq {
				best, bestDistSq = c, distSq
			}
		}
	}
	return best
}
