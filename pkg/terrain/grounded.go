package terrain

import "github.com/Faultbox/terracast/pkg/math"

const (
	// groundSampleSpread places the four outer footprint samples at this
	// fraction of the capsule radius from its center.
	groundSampleSpread float32 = 0.7
	// groundRayReach extends each probe ray past the capsule radius.
	groundRayReach float32 = 0.2
	// groundRayLift raises each probe origin off the capsule base so the
	// ray cannot start inside the surface it is probing.
	groundRayLift float32 = 0.1
)

// CheckGrounded reports whether a capsule of the given radius and height
// centered at position rests on the ground, and where. Five short rays
// probe the footprint: the base center and four offsets along the world
// axes. Among the samples that hit, the lowest contact defines the ground
// under an uneven footprint. The bool is false when no sample hits.
func (c *Collider) CheckGrounded(position math.Vec3, radius, height float32) (GroundContact, bool) {
	base := position
	base.Y -= height / 2

	spread := radius * groundSampleSpread
	offsets := [5]math.Vec3{
		{},
		{X: spread},
		{X: -spread},
		{Z: spread},
		{Z: -spread},
	}

	down := math.Vec3{Y: -1}
	reach := radius + groundRayReach

	var best RaycastHit
	found := false
	for _, off := range offsets {
		origin := base.Add(off)
		origin.Y += groundRayLift
		hit, ok := c.Raycast(origin, down, reach)
		if !ok {
			continue
		}
		if !found || hit.Position.Y < best.Position.Y {
			best = hit
			found = true
		}
	}
	if !found {
		return GroundContact{}, false
	}
	return GroundContact{
		Position: best.Position,
		Normal:   best.Normal,
		Surface:  best.Surface,
	}, true
}
