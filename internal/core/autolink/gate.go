package autolink

import "github.com/zeusync/autolink/internal/core/models"

// ShouldScan is the cheap type-based gate in front of every pass. Structural
// building pieces, supports and power poles never carry auto-linkable
// connectors and are placed far more often than anything else, so they are
// rejected before any component scan. Everything else is scanned.
func ShouldScan(b *models.Buildable) bool {
	if b.IsDestroyed() {
		return false
	}
	switch b.Kind() {
	case models.KindStructure, models.KindPole, models.KindPowerPole:
		return false
	default:
		return true
	}
}
