package autolink

import (
	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

// scoreTrack returns every track connector home should link to. Rails may
// fan out, so there is no best candidate: everything that survives the
// filters qualifies. Hits may repeat, so the result is deduplicated.
func (e *Engine) scoreTrack(home *models.TrackConnector, hits []*models.Buildable) []*models.TrackConnector {
	hLoc, hNorm := home.Location(), home.Normal()
	tol := e.cfg.Alignment.CollinearTolerance
	vtol := e.cfg.Alignment.TrackVerticalTolerance

	var out []*models.TrackConnector
	seen := make(map[*models.TrackConnector]struct{})
	for _, hit := range hits {
		for _, c := range CollectTrack(hit) {
			if c == home || c.Owner() == home.Owner() {
				e.reject(models.FamilyTrack, rejectSelf)
				continue
			}
			if _, dup := seen[c]; dup {
				e.reject(models.FamilyTrack, rejectDuplicate)
				continue
			}
			seen[c] = struct{}{}

			if home.IsConnectedTo(c) {
				e.reject(models.FamilyTrack, rejectConnected)
				continue
			}
			if physics.DistanceSq(hLoc, c.Location()) > e.cfg.Track.MaxDistanceSq {
				e.reject(models.FamilyTrack, rejectDistance)
				continue
			}
			cNorm := c.Normal()
			if !physics.CollinearLoose(hNorm, cNorm, tol, vtol) {
				e.reject(models.FamilyTrack, rejectAlignment)
				continue
			}
			if hNorm.Dot(cNorm) >= 0 {
				e.reject(models.FamilyTrack, rejectDirection)
				continue
			}
			out = append(out, c)
		}
	}
	return out
}
