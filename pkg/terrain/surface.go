// Package terrain implements ground collision and surface queries over
// heightmap grids and externally supplied collision meshes.
package terrain

import (
	gomath "math"

	"github.com/Faultbox/terracast/pkg/math"
)

// SurfaceInfo describes the ground at a queried world position.
type SurfaceInfo struct {
	// Exists reports whether any ground was found at the query point.
	Exists bool
	// Height is the world-space elevation. Negative infinity when no
	// ground exists.
	Height float32
	// Normal is the unit surface normal, up-biased. World-up when no
	// ground exists.
	Normal math.Vec3
	// Slope is the angle in radians between Normal and world-up.
	Slope float32
	// Material is the name of the material zone at the query point.
	Material string
	// Friction is the resolved friction coefficient of Material.
	Friction float32
}

// RaycastHit describes the nearest ground intersection along a ray.
type RaycastHit struct {
	Position math.Vec3
	Normal   math.Vec3
	// Distance along the ray from its origin, never negative.
	Distance float32
	Surface  SurfaceInfo
}

// GroundContact describes where a capsule footprint rests on the ground.
type GroundContact struct {
	Position math.Vec3
	Normal   math.Vec3
	Surface  SurfaceInfo
}

// worldUp is the global up axis. Heightfields are functions of (x, z).
var worldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// noSurface returns the SurfaceInfo reported when no ground exists.
func noSurface() SurfaceInfo {
	return SurfaceInfo{
		Exists: false,
		Height: float32(gomath.Inf(-1)),
		Normal: worldUp,
	}
}

// slopeOf returns the angle in radians between a unit normal and world-up.
func slopeOf(normal math.Vec3) float32 {
	d := clampf(normal.Dot(worldUp), -1, 1)
	return float32(gomath.Acos(float64(d)))
}
