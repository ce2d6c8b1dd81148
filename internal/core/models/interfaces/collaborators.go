package interfaces

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/autolink/internal/core/models"
)

// SpatialQuery answers probe queries against the static world. Both queries
// resolve instanced proxies back to the buildable that owns them and never
// return ignore. Results may contain duplicates.
type SpatialQuery interface {
	// HitScan returns every buildable struck by the segment start→end,
	// ordered by distance from start.
	HitScan(start, end mgl64.Vec3, ignore *models.Buildable) []*models.Buildable
	// OverlapScan returns every buildable within radius of center, ordered
	// by distance from center.
	OverlapScan(center mgl64.Vec3, radius float64, ignore *models.Buildable) []*models.Buildable
}

// ConveyorRegistry tracks conveyor segments. Removing and re-adding a
// conveyor forces the registry to rebuild anything derived from membership.
type ConveyorRegistry interface {
	AddConveyor(*models.Buildable)
	RemoveConveyor(*models.Buildable)
}

// FluidRegistry tracks integrants that take part in fluid simulation.
type FluidRegistry interface {
	RegisterIntegrant(*models.FluidIntegrant)
	IsRegistered(*models.FluidIntegrant) bool
}

// TrackGraph joins the rail graphs of two linked track segments. Connect
// must be idempotent.
type TrackGraph interface {
	Connect(a, b *models.Buildable)
}
