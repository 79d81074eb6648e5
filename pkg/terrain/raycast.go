package terrain

import (
	gomath "math"

	"github.com/Faultbox/terracast/pkg/math"
)

// DefaultRayDistance is the ray length used when a caller passes a
// non-positive maxDistance.
const DefaultRayDistance float32 = 100

const (
	// rayMarchSteps is the fixed number of coarse samples along a ray.
	rayMarchSteps = 100
	// rayRefineSteps is the number of bisection iterations applied once a
	// crossing is bracketed, narrowing it to stepSize/2^10.
	rayRefineSteps = 10
)

// Raycast finds the nearest ground intersection along a ray. The direction
// is normalized internally; a non-positive maxDistance falls back to
// DefaultRayDistance. The bool is false when nothing is hit within range or
// no geometry is assigned.
func (c *Collider) Raycast(origin, dir math.Vec3, maxDistance float32) (RaycastHit, bool) {
	if maxDistance <= 0 {
		maxDistance = DefaultRayDistance
	}
	dir = dir.Normalize()
	if dir == (math.Vec3{}) {
		return RaycastHit{}, false
	}

	switch c.source() {
	case sourceHeightmap:
		t, ok := marchHeightmap(c.heightmap, origin, dir, maxDistance)
		if !ok {
			return RaycastHit{}, false
		}
		pos := origin.AddScaled(dir, t)
		info := c.heightmapSurface(pos.X, pos.Z)
		return RaycastHit{
			Position: pos,
			Normal:   info.Normal,
			Distance: t,
			Surface:  info,
		}, true
	case sourceMesh:
		hit, ok := c.ctx.Raycast(origin, dir, maxDistance)
		if !ok {
			return RaycastHit{}, false
		}
		info := c.meshSurface(hit)
		return RaycastHit{
			Position: hit.Point,
			Normal:   info.Normal,
			Distance: hit.Distance,
			Surface:  info,
		}, true
	default:
		return RaycastHit{}, false
	}
}

// SphereCast approximates where a sphere swept from one point to another
// first touches the ground: a raycast along the segment, pulled back by the
// sphere radius scaled against the approach angle. When the sphere already
// overlaps the surface at the start point the hit is reported there with
// zero distance.
//
// This is a linear approximation along the segment only. It does not probe
// perpendicular offsets, so a sphere passing close to a near-parallel
// surface the center ray misses can report no contact.
func (c *Collider) SphereCast(from, to math.Vec3, radius float32) (RaycastHit, bool) {
	delta := to.Sub(from)
	dist := delta.Length()
	if dist == 0 {
		return RaycastHit{}, false
	}
	dir := delta.Scale(1 / dist)

	hit, ok := c.Raycast(from, dir, dist)
	if !ok {
		return RaycastHit{}, false
	}

	earlier := sphereContactDistance(hit.Distance, radius, dir, hit.Normal)
	if earlier < 0 {
		info := c.SurfaceInfoAt(from)
		return RaycastHit{
			Position: from,
			Normal:   info.Normal,
			Distance: 0,
			Surface:  info,
		}, true
	}
	hit.Position = from.AddScaled(dir, earlier)
	hit.Distance = earlier
	return hit, true
}

// marchHeightmap walks a ray across the height grid in fixed steps and
// returns the refined distance to the first terrain crossing. Samples
// outside the grid never register a crossing: the ray may leave and
// re-enter bounded terrain.
func marchHeightmap(hm *Heightmap, origin, dir math.Vec3, maxDistance float32) (float32, bool) {
	stepSize := maxDistance / rayMarchSteps
	for i := 1; i <= rayMarchSteps; i++ {
		t := float32(i) * stepSize
		p := origin.AddScaled(dir, t)
		ground, ok := hm.HeightAt(p.X, p.Z)
		if !ok {
			continue
		}
		if p.Y <= ground {
			return refineCrossing(hm, origin, dir, t-stepSize, t), true
		}
	}
	return 0, false
}

// refineCrossing bisects a bracketed crossing and converges on the upper
// bound. Leaving the grid mid-refinement stops the search at the current
// midpoint: there is nothing left to sample against.
func refineCrossing(hm *Heightmap, origin, dir math.Vec3, lo, hi float32) float32 {
	for i := 0; i < rayRefineSteps; i++ {
		mid := (lo + hi) / 2
		p := origin.AddScaled(dir, mid)
		ground, ok := hm.HeightAt(p.X, p.Z)
		if !ok {
			return mid
		}
		if p.Y <= ground {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

// sphereContactDistance pulls a ray hit distance back to where a sphere of
// the given radius would first touch the surface, based on the approach
// angle between the ray and the surface normal. Negative infinity stands
// in for a grazing approach, which the caller treats as an overlap at the
// ray origin.
func sphereContactDistance(hitDistance, radius float32, dir, normal math.Vec3) float32 {
	if radius <= 0 {
		return hitDistance
	}
	facing := dir.Dot(normal)
	if facing < 0 {
		facing = -facing
	}
	if facing == 0 {
		return float32(gomath.Inf(-1))
	}
	return hitDistance - radius/facing
}
